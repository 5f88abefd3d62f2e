package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ridesafe/identity/internal/identity/cache"
	httpapi "github.com/ridesafe/identity/internal/identity/http"
	"github.com/ridesafe/identity/internal/identity/mailer"
	"github.com/ridesafe/identity/internal/identity/oauth"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/internal/identity/store/drivers/sqlite"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/ridesafe/identity/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds every collaborator. They are built once here and
// injected; nothing below reaches for globals.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	redis   *redis.Client // nil when pending enrollments live in memory
	pending cache.PendingEnrollments
	mailer  mailer.Mailer
	google  *oauth.GoogleVerifier
	signer  *jwtx.HS256
	hasher  *cryptox.Hasher

	accountService      *service.AccountService
	tokenService        *service.TokenService
	mfaService          *service.MFAService
	oauthService        *service.OAuthService
	authService         *service.AuthService
	adminService        *service.AdminService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	app.hasher = cryptox.NewHasher(app.cfg.BcryptCost)

	if err := app.initSigner(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initMailer()
	app.initGoogle()

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains requests, lets queued reset mails finish, stops
// housekeeping and closes the backing stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.authService.WaitMail()
	app.housekeepingService.Stop()

	app.close()

	app.logger.Info("identity service stopped")
	return nil
}

// Promote makes an existing account an administrator. It backs the
// "promote" command and does not start the server.
func (app *Application) Promote(ctx context.Context, identifier string) error {
	defer app.close()

	a, err := app.adminService.Promote(ctx, identifier)
	if err != nil {
		return err
	}
	app.logger.Info("account promoted", "account_id", a.ID, "username", a.Username)
	return nil
}

func (app *Application) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
	}
}

func (app *Application) initSigner() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		secret = cryptox.MustGenerateToken(jwtx.MinSecretLength)
		app.logger.Warn("IDENTITY_JWT_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	signer, err := jwtx.NewHS256([]byte(secret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session signer: %w", err)
	}
	app.signer = signer
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initCache() error {
	if app.cfg.RedisURL == "" {
		app.pending = cache.NewMemoryPending()
		app.logger.Info("pending 2FA enrollments kept in memory")
		return nil
	}

	client, err := cache.NewRedisClient(context.Background(), app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	app.pending = cache.NewRedisPending(client, "")
	app.logger.Info("pending 2FA enrollments kept in redis")
	return nil
}

func (app *Application) initMailer() {
	m, err := mailer.NewResend(app.cfg.ResendAPIKey, app.cfg.MailFrom, app.cfg.AppBaseURL)
	if err != nil {
		app.mailer = mailer.NewLog(app.logger, app.cfg.AppBaseURL)
		app.logger.Warn("reset mail is logged, not sent", "reason", err)
		return
	}
	app.mailer = m
}

func (app *Application) initGoogle() {
	app.google = oauth.NewGoogleVerifier(oauth.GoogleConfig{ClientID: app.cfg.GoogleClientID})
	if app.cfg.GoogleClientID == "" {
		app.logger.Info("google sign-in disabled")
	}
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	timeout := app.cfg.StoreTimeout
	validator := service.NewValidator(app.cfg.AllowedEmailDomains)

	app.accountService = service.NewAccountService(app.db, app.hasher, validator, timeout)
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
		ResetTTL:   service.ResetTokenTTL,
		Timeout:    timeout,
	}
	app.mfaService = &service.MFAService{
		Accounts:   app.accountService,
		Store:      app.db,
		Pending:    app.pending,
		Hasher:     app.hasher,
		Issuer:     "RideSafe",
		PendingTTL: cache.PendingTwoFactorTTL,
	}
	app.oauthService = &service.OAuthService{
		Verifier:  app.google,
		Accounts:  app.accountService,
		Validator: validator,
		Timeout:   oauth.DefaultFetchTimeout,
	}
	app.authService = &service.AuthService{
		Accounts:    app.accountService,
		Tokens:      app.tokenService,
		MFA:         app.mfaService,
		OAuth:       app.oauthService,
		Mailer:      app.mailer,
		MailTimeout: mailer.DefaultTimeout,
	}
	app.adminService = &service.AdminService{Accounts: app.accountService}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Timeout = timeout
	if sweeper, ok := app.pending.(service.Sweeper); ok {
		app.housekeepingService.Sweepers = append(app.housekeepingService.Sweepers, sweeper)
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	var keys httpapi.KeySource
	if app.cfg.GoogleClientID != "" {
		keys = app.google
	}

	router := httpapi.NewRouter(BuildVersion, app.db, app.pending, keys, app.logger)

	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.SessionResolver = &service.SessionResolver{Tokens: app.tokenService, Accounts: app.accountService}
	router.ProfileService = &service.ProfileService{Accounts: app.accountService}
	router.AdminService = app.adminService
	router.ContactService = &service.ContactService{Accounts: app.accountService}
	router.MFAService = app.mfaService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
