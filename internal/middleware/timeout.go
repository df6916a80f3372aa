package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single request. 30 seconds leaves headroom
// for a slow database without letting stuck handlers pile up.
const DefaultRequestTimeout = 30 * time.Second

// Timeout enforces a deadline on each request. The deadline is attached to
// the request context so database and queue calls abort with it, and
// http.TimeoutHandler writes the 503 if the handler never returns.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		guarded := http.TimeoutHandler(next, timeout, "Request Timeout")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			guarded.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
