package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMaxRequestSize_DeclaredLengthTooLarge(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for oversized requests")
	})

	middleware := MaxRequestSize(64)(handler)

	req := httptest.NewRequest("POST", "/api/v1/utterances", strings.NewReader(strings.Repeat("a", 128)))
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}
}

func TestMaxRequestSize_BodyReadCapped(t *testing.T) {
	t.Parallel()

	var readErr error
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	middleware := MaxRequestSize(64)(handler)

	// No declared Content-Length, so the limit must bite during the read.
	req := httptest.NewRequest("POST", "/api/v1/utterances", strings.NewReader(strings.Repeat("a", 128)))
	req.ContentLength = -1
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if readErr == nil {
		t.Error("Expected read error for body over the limit")
	}
}

func TestMaxRequestSize_SmallBodyPasses(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Unexpected read error: %v", err)
		}
		if string(body) != `{"text":"buy milk"}` {
			t.Errorf("Body was altered: %q", body)
		}
		w.WriteHeader(http.StatusCreated)
	})

	middleware := MaxRequestSize(DefaultMaxRequestSize)(handler)

	req := httptest.NewRequest("POST", "/api/v1/utterances", strings.NewReader(`{"text":"buy milk"}`))
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
}
