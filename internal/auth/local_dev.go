package auth

import "net/http"

// LocalDevMiddleware provides a mock user context for local development
func LocalDevMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims := &UserClaims{
				UID:         "local-dev-user",
				Email:       "dev@localhost",
				DisplayName: "Local Dev User",
				Verified:    true,
			}
			next.ServeHTTP(w, r.WithContext(withUserClaims(r.Context(), userClaims)))
		})
	}
}
