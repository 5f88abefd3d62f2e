package httpx

import (
	"net/http"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/slogx"
)

var (
	errAdminOnly = apperror.NewForbidden("Admin access required")
	errRiderOnly = apperror.NewForbidden("Rider access required")
)

// RequireAdmin lets administrators through. It must run after
// Authenticate; a request without a principal is a 401, a principal with
// another role is a 403.
func RequireAdmin() Middleware { return requireRole(domain.RoleAdmin, errAdminOnly) }

// RequireRider lets riders through. Administrators are refused.
func RequireRider() Middleware { return requireRole(domain.RoleRider, errRiderOnly) }

func requireRole(role domain.Role, denied *apperror.AppError) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				WriteError(w, r, errMissingToken)
				return
			}
			if !p.Role.Is(role) {
				slogx.FromContext(r.Context()).InfoContext(r.Context(), "role check failed",
					"account_id", p.ID, "role", string(p.Role), "required", string(role))
				WriteError(w, r, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
