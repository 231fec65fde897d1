package server

import (
	"crypto/subtle"
	"net/http"
)

// requireAPIKey rejects requests whose x-api-key header does not match
// the configured credential. The comparison is constant-time so the key
// cannot be recovered byte by byte from response timing.
func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-api-key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
