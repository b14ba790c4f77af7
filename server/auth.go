package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAuth gates mutating dashboard routes. The bearer credential must
// equal one of the two configured secrets; this is a capability check, not
// identity. No rate limiting, expiry or hashing.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if !tokenMatches(token, s.cfg.GatewayAPIKey) && !tokenMatches(token, s.cfg.OIDCToken) {
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tokenMatches compares in constant time. An unset secret never matches.
func tokenMatches(candidate, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) == 1
}
