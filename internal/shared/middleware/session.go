package middleware

import (
	"net/http"

	"sweetconsole/internal/components/auth"
)

// NewSessionGuard gates a subtree on the presence of a persisted session.
// Unauthenticated requests are handed to the fallback handler (the
// dashboard's own login view) instead of reaching the guarded routes.
func NewSessionGuard(sessions *auth.Service, fallback http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.IsAuthenticated() {
				fallback(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
