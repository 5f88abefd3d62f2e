package http

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g router.go -d ./,../../../pkg/identitysdk -o ../../../api/identity --outputTypes go

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/slogx"

	_ "github.com/ridesafe/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	routes      []string

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	db     Pinger
	cache  Pinger
	google KeySource // nil when Google sign-in is not configured

	AuthService     *service.AuthService
	AccountService  *service.AccountService
	SessionResolver *service.SessionResolver
	ProfileService  *service.ProfileService
	AdminService    *service.AdminService
	ContactService  *service.ContactService
	MFAService      *service.MFAService
}

func NewRouter(buildVersion string, db, cache Pinger, google KeySource, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		cache:        cache,
		google:       google,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerUsers()
	r.registerContacts()
	r.registerTwoFactor()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// handle registers an API route. Every pattern passed here is expected to
// have a matching operation in the generated swagger docs.
func (r *Router) handle(pattern string, h http.Handler) {
	r.routes = append(r.routes, pattern)
	r.Mux.Handle(pattern, h)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			RideSafe Identity Service API
//	@version		1.0.0
//	@description	Accounts, sessions, password recovery, Google sign-in, two-factor authentication
//	@description	and emergency contacts for RideSafe riders and administrators.
//	@description
//	@description				Session tokens are HS256 JWTs. Send them as "Authorization: Bearer {token}".
//
//	@contact.name				RideSafe Platform Team
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// bearer wraps h with authentication, the optional role gates and a
// per-account rate limit.
func (r *Router) bearer(h http.HandlerFunc, limit httpx.RateLimitConfig, gates ...httpx.Middleware) http.Handler {
	mws := append([]httpx.Middleware{httpx.Authenticate(r.SessionResolver)}, gates...)
	mws = append(mws, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService, Sessions: r.SessionResolver}

	// Credential endpoints: strict, keyed by IP + identifier.
	r.handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "identifier"),
		),
	)
	r.handle("POST /admin/login",
		httpx.Chain(http.HandlerFunc(h.HandleAdminLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "identifier"),
		),
	)
	r.handle("POST /forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.handle("POST /reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.handle("POST /google",
		httpx.Chain(http.HandlerFunc(h.HandleGoogle),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /verify resolves the token itself so it can return the account.
	r.handle("GET /verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Profile: r.ProfileService, Auth: r.AuthService}

	r.handle("PUT /profile", r.bearer(h.HandleUpdate, httpx.ModerateLimit))
	r.handle("DELETE /profile", r.bearer(h.HandleDelete, httpx.ModerateLimit))
	r.handle("PUT /profile/password", r.bearer(h.HandleChangePassword, httpx.StrictLimit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Admin: r.AdminService}
	admin := httpx.RequireAdmin()

	r.handle("GET /users", r.bearer(h.HandleList, httpx.LenientLimit, admin))
	r.handle("GET /users/{id}", r.bearer(h.HandleGet, httpx.LenientLimit, admin))
	r.handle("PUT /users/{id}", r.bearer(h.HandleUpdate, httpx.ModerateLimit, admin))
	r.handle("DELETE /users/{id}", r.bearer(h.HandleDelete, httpx.ModerateLimit, admin))
	r.handle("PUT /users/{id}/role", r.bearer(h.HandleSetRole, httpx.ModerateLimit, admin))
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{Contacts: r.ContactService}
	rider := httpx.RequireRider()

	r.handle("GET /contacts", r.bearer(h.HandleList, httpx.LenientLimit, rider))
	r.handle("POST /contacts", r.bearer(h.HandleAdd, httpx.ModerateLimit, rider))
	r.handle("PUT /contacts/{id}", r.bearer(h.HandleUpdate, httpx.ModerateLimit, rider))
	r.handle("DELETE /contacts/{id}", r.bearer(h.HandleDelete, httpx.ModerateLimit, rider))
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{MFA: r.MFAService, Accounts: r.AccountService}

	r.handle("POST /2fa/generate", r.bearer(h.HandleGenerate, httpx.ModerateLimit))
	// Code checks are strict.
	r.handle("POST /2fa/verify", r.bearer(h.HandleVerify, httpx.StrictLimit))
	r.handle("POST /2fa/disable", r.bearer(h.HandleDisable, httpx.StrictLimit))
	r.handle("POST /2fa/backup-codes", r.bearer(h.HandleBackupCodes, httpx.StrictLimit))
	r.handle("GET /2fa/status", r.bearer(h.HandleStatus, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	r.handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.cache, r.google),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
