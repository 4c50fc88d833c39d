package auth

import (
	"encoding/json"
	"log"
	"net/http"
)

// Middleware verifies the Bearer token of every request and stores the user's
// claims in the request context. Requests without a valid token get a 401
// with a user-facing message; handlers never see unauthenticated requests.
func Middleware(firebaseAuth *FirebaseAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractTokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			claims, err := firebaseAuth.VerifyToken(r.Context(), token)
			if err != nil {
				log.Printf("token verification failed: %v", err)
				writeUnauthorized(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": MessageFor(err)})
}
