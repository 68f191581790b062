package main

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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/hecovacka/internal/auth"
	"github.com/mmynk/hecovacka/internal/config"
	"github.com/mmynk/hecovacka/internal/metrics"
	"github.com/mmynk/hecovacka/internal/middleware"
	"github.com/mmynk/hecovacka/internal/realtime"
	"github.com/mmynk/hecovacka/internal/service"
	"github.com/mmynk/hecovacka/internal/storage"
	"github.com/mmynk/hecovacka/internal/storage/memory"
	"github.com/mmynk/hecovacka/internal/storage/mongostore"
	"github.com/mmynk/hecovacka/internal/storage/sqlstore"
	"github.com/mmynk/hecovacka/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.Env, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, tokens are signed with the built-in default secret")
	}

	if cfg.MongoURIShadowed() {
		logger.Warn("MONGODB_URI is set but ignored because a SQL backend is configured", "backend", cfg.StorageBackend())
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if cfg.SeedDemo {
		seeded, err := storage.Seed(ctx, store, time.Now())
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		if seeded {
			logger.Info("Demo data seeded", "group_id", storage.DemoGroupID)
		}
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	hub := realtime.NewHub(realtime.Options{
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		RateRPS:        cfg.WebSocket.RateRPS,
		RateBurst:      cfg.WebSocket.RateBurst,
	}, m, logger)
	go hub.Run()

	apiLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
		"Too many requests from this IP, please try again later.")
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit.RPS, cfg.AuthRateLimit.Burst,
		"Too many authentication attempts, please try again later.")
	go apiLimiter.Run(ctx)
	go authLimiter.Run(ctx)

	mux := service.NewRouter(service.RouterConfig{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWTManager:    jwtManager,
		Logger:        logger,
		Env:           cfg.Env,
		Port:          cfg.Port,
		APILimiter:    apiLimiter,
		AuthLimiter:   authLimiter,
		Realtime:      realtime.NewHandler(hub, jwtManager, cfg.AllowedOrigins),
		Metrics:       m.Handler(),
	})

	handler := middleware.Chain(mux,
		middleware.Metrics(m),
		middleware.Logging(logger),
		middleware.Recover(logger, cfg.IsDevelopment()),
		middleware.CORS(cfg.AllowedOrigins),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Hecovačka server starting",
			"address", server.Addr,
			"url", fmt.Sprintf("http://localhost:%d", cfg.Port),
			"environment", cfg.Env,
			"allowed_origins", cfg.AllowedOrigins,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		logger.Warn("Realtime hub shutdown incomplete", "error", err)
	}
	return nil
}

// openStore opens the backend chosen by cfg.StorageBackend.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.Store, error) {
	backend := cfg.StorageBackend()
	var (
		store storage.Store
		err   error
	)
	switch backend {
	case config.BackendPostgres:
		store, err = sqlstore.OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		store, err = sqlstore.OpenSQLite(cfg.DBPath)
	case config.BackendMongo:
		store, err = mongostore.Open(ctx, cfg.MongoDBURI)
	default:
		logger.Warn("No database configured, data will be lost on restart", "backend", backend)
		store = memory.New()
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Storage initialized", "backend", backend)
	return store, nil
}
