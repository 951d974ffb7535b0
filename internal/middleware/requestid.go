package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lifeosapp/lifeos-api/internal/services/ai"
)

// RequestID attaches a request ID to the context so provider logs can be
// correlated with the HTTP request. An incoming X-Request-ID is honored,
// otherwise a fresh UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), ai.RequestIDContextKey(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
