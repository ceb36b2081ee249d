package middleware

import (
	"context"
	"net/http"

	"groupchat/internal/core/domain"
	"groupchat/internal/core/services"
)

type authKeyType struct{}

var AuthContextKey = authKeyType{}

// AuthFromContext returns the AuthContext placed by AuthMiddleware.
func AuthFromContext(ctx context.Context) (domain.AuthContext, bool) {
	authCtx, ok := ctx.Value(AuthContextKey).(domain.AuthContext)
	return authCtx, ok && authCtx.Authenticated
}

// AuthMiddleware gates the REST routes. The WebSocket path runs the same
// gate inside its handler instead, since a rejected socket must close with
// a policy code rather than a 401 body.
func AuthMiddleware(authSvc *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, err := authSvc.Authenticate(r.Context(), r.Header)
			if err != nil {
				http.Error(w, "identity lookup failed", http.StatusInternalServerError)
				return
			}
			if !authCtx.Authenticated {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
