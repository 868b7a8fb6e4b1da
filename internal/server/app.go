// Package server initializes and runs the secretlink server. It wires the
// storage backend, content cipher, and HTTP endpoint together and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avolkovs/secretlink/internal/cryptox"
	"github.com/avolkovs/secretlink/internal/logging"
	"github.com/avolkovs/secretlink/internal/server/config"
	"github.com/avolkovs/secretlink/internal/server/httpapi"
	"github.com/avolkovs/secretlink/internal/server/ratelimit"
	"github.com/avolkovs/secretlink/internal/server/repositories/repomanager"
	"github.com/avolkovs/secretlink/internal/server/secrets"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repoManager   repomanager.RepositoryManager
	secretService *secrets.Service
	limiter       *ratelimit.Limiter
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	cipher, err := cryptox.NewContentCipher([]byte(c.MasterKey))
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	var rm repomanager.RepositoryManager
	if c.UseInMemoryStore {
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		rm, err = repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	ss := secrets.NewService(
		rm.Secrets(),
		cipher,
		secrets.NewListingCache(c.ListingCacheTTL),
		c.DefaultSecretTTL,
		logger,
	)
	limiter := ratelimit.New(c.MutationRateLimit, c.MutationRateWindow, logger)

	return &App{
		config:        c,
		logger:        logger,
		repoManager:   rm,
		secretService: ss,
		limiter:       limiter,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	handler := httpapi.NewHandler(app.secretService, app.limiter, app.logger)
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: httpapi.NewRouter(handler, []byte(app.config.JWTSecret)),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repoManager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
