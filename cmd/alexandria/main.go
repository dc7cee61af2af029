package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/alexandria-lms/alexandria/internal/app"
	"github.com/alexandria-lms/alexandria/internal/auth"
	"github.com/alexandria-lms/alexandria/internal/books"
	"github.com/alexandria-lms/alexandria/internal/contact"
	"github.com/alexandria-lms/alexandria/internal/hardening"
	"github.com/alexandria-lms/alexandria/internal/observability"
	"github.com/alexandria-lms/alexandria/internal/platform/cache"
	"github.com/alexandria-lms/alexandria/internal/platform/db"
	"github.com/alexandria-lms/alexandria/internal/rbac"
	"github.com/alexandria-lms/alexandria/internal/roles"
	"github.com/alexandria-lms/alexandria/internal/shared"
	"github.com/alexandria-lms/alexandria/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "alexandria_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)

	rbacStore := rbac.NewStore(dbpool)
	rbacService, err := rbac.NewServiceFromStore(ctx, rbac.Universe(shared.AllPermissions()), cfg.PublicRole, rbacStore, logger)
	if err != nil {
		logger.Error("load authorization state", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, rbacService)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	rbacMiddleware := rbac.Middleware{Service: rbacService, Principals: authService, Logger: logger}

	headerPolicy := hardening.NewPolicy(cfg.HardeningConfig())
	metrics := observability.NewMetrics()

	booksRepo := books.NewRepository(dbpool)
	booksService := books.NewService(booksRepo, rbacService, auditLogger, logger, cfg.BookYearMax)
	booksHandler := books.NewHandler(logger, booksService)

	contactService := contact.NewService(auditLogger, logger)
	contactHandler := contact.NewHandler(logger, contactService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, rbacService)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	rolesHandler := roles.NewHandler(logger, rbacService, rbacMiddleware)
	permissionsHandler := &rbac.PermissionsHandler{Service: rbacService, MW: rbacMiddleware, Logger: logger}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		HeaderPolicy:       headerPolicy,
		RBACMiddleware:     rbacMiddleware,
		AuthHandler:        authHandler,
		BooksHandler:       booksHandler,
		ContactHandler:     contactHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
