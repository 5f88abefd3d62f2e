package http

import (
	"net/http"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
)

// principal returns the caller attached by httpx.Authenticate. Handlers
// behind that middleware only miss it when routes are wired wrongly.
func principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := httpx.PrincipalFrom(r.Context())
	if !ok || p.ID == "" {
		httpx.WriteError(w, r, service.ErrInvalidSession)
		return domain.Principal{}, false
	}
	return p, true
}
