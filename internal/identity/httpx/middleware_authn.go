package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/slogx"
)

// Resolver turns a bearer token into the caller behind it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

var errMissingToken = apperror.NewUnauthenticated("Authentication required")

// Authenticate requires "Authorization: Bearer <token>" and a token the
// resolver accepts. The principal is attached to the request context.
func Authenticate(res Resolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="identity"`)
				WriteError(w, r, errMissingToken)
				return
			}

			p, err := res.Resolve(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteError(w, r, err)
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = slogx.WithAccount(ctx, p.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. The scheme
// is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
