package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/utils"
)

type claimsKey struct{}

// Authenticate checks bearer tokens issued by the local identity provider.
// Requests without an Authorization header pass through unauthenticated.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := utils.ValidateToken(secret, tokenString)
			if err != nil {
				logging.Logger.Warnf("Event ID: INVALID_TOKEN, Description: Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid token"}` + "\n"))
				return
			}

			if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
				info.user = claims.Subject
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFrom returns the token claims attached by Authenticate.
func ClaimsFrom(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*utils.Claims)
	return claims, ok
}
