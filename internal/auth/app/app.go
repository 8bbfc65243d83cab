package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lanternsec/authd/internal/auth/audit"
	"github.com/lanternsec/authd/internal/auth/events"
	httpapi "github.com/lanternsec/authd/internal/auth/http"
	"github.com/lanternsec/authd/internal/auth/mail"
	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/internal/auth/store/drivers/sqlite"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/jwtx"
	"github.com/lanternsec/authd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the whole service together: store, signer, services,
// router, housekeeping.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	userService         *service.UserService
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	redeemService       *service.RedeemService
	accountService      *service.AccountService
	mfaService          *service.MFAService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := initSigner(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.signer = signer

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("authd starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown drains the server, stops housekeeping and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authd...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("authd stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

func (app *Application) initServices() {
	hasher := cryptox.Hasher{Params: cryptox.Params{
		Memory:      app.cfg.ArgonMemory,
		Iterations:  app.cfg.ArgonIterations,
		Parallelism: app.cfg.ArgonParallelism,
	}}
	emitter := events.LogEmitter{}
	sink := audit.NewSlogSink(app.logger.With("component", "audit"))

	var mailer mail.Mailer = &logMailer{logger: app.logger}
	if app.cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Addr:     app.cfg.SMTPAddr,
			From:     app.cfg.SMTPFrom,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
		})
	}

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Hasher:     hasher,
		Events:     emitter,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.tokenService = &service.TokenService{
		Signer:    app.signer,
		Sessions:  app.sessionService,
		Store:     app.db,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTTL,
	}
	app.redeemService = &service.RedeemService{
		Store:  app.db,
		Hasher: hasher,
	}
	app.userService = &service.UserService{
		Store:  app.db,
		Tokens: app.tokenService,
		Events: emitter,
		Audit:  sink,
	}
	app.accountService = &service.AccountService{
		Store:     app.db,
		Redeem:    app.redeemService,
		Mailer:    mailer,
		Events:    emitter,
		Audit:     sink,
		AppURL:    app.cfg.AppURL,
		VerifyTTL: app.cfg.VerifyTTL,
		ResetTTL:  app.cfg.ResetTTL,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Audit:  sink,
		Issuer: app.cfg.Issuer,
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer.Verifier(app.cfg.Issuer), BuildVersion, app.db, app.logger)
	router.UserService = app.userService
	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.AccountService = app.accountService
	router.MFAService = app.mfaService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}

// logMailer stands in for SMTP in dev: the mail is logged, not sent. Bodies
// carry live secrets so only the recipient and subject are recorded.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(ctx context.Context, msg mail.Message) error {
	m.logger.Info("mail delivery skipped (no SMTP relay configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
