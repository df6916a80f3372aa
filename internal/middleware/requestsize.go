package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize caps request bodies at 1MB. Utterance and task
// payloads are a few hundred bytes, so anything near the cap is abuse.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize rejects oversized request bodies. A declared Content-Length
// over the limit fails fast with 413; bodies without a declared length are
// wrapped in a MaxBytesReader so handlers hit the limit during decode.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
