package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards every route except /health with the API token the
// server generated (or was configured with) at startup.
func BearerAuth(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const scheme = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, scheme) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "missing or invalid API token")
				return
			}
			presented := []byte(header[len(scheme):])
			if subtle.ConstantTimeCompare(presented, expected) != 1 {
				httpError(w, http.StatusUnauthorized, "authentication_error", "missing or invalid API token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
