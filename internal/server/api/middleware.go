package api

import (
	"context"
	"net/http"

	"github.com/avelichko/inkwell-auth/internal/server/auth"
	"github.com/avelichko/inkwell-auth/internal/server/models"
)

type ctxKey string

const claimsKey ctxKey = "accessClaims"

// ClaimsFromContext returns the verified access-token claims placed on the
// request context by the authenticate middleware.
func ClaimsFromContext(ctx context.Context) (*auth.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.AccessClaims)
	return claims, ok
}

// authenticate verifies the bearer access token and injects its claims into
// the request context. Verification is purely computational (signature and
// clock), so guarded requests never touch storage here.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := s.codec.VerifyAccess(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles restricts a route to the given roles via the single
// authorization rule in auth.Allowed. Must run after authenticate;
// a request without claims is an authentication failure, not a role one.
func requireRoles(required ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if !auth.Allowed(claims.Role, required...) {
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
