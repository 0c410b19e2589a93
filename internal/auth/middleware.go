package auth

import (
	"encoding/json"
	"net/http"
)

// APIKeyMiddleware returns middleware that enforces API key
// authentication on every request.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests are allowed
//     (pass-through).
//   - Otherwise the middleware reads the value of header from the request
//     and compares it to key.
//   - A missing, empty, or incorrect key returns 401 with a JSON error
//     body.
func APIKeyMiddleware(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		// Non-apikey modes or unconfigured key: allow everything.
		if mode != "apikey" || key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(header) != key {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
