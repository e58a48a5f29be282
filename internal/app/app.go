package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/db/sqlite"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/play"
	"github.com/gokatarajesh/trivia-api/internal/quizsession"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Application aggregates shared infrastructure (store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	closeStore func()
	redis      *redis.Client
	http       *http.Server

	importWorker *importer.Worker
	bgCancels    []context.CancelFunc
	bgWG         sync.WaitGroup
}

// New bootstraps the store, optional Redis and admin auth, and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("store", cfg.Store.Driver).Msg("starting application bootstrap")

	repo, pinger, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	} else {
		logger.Warn().Msg("REDIS_ADDR not configured; quiz sessions disabled")
	}

	var tokens *jwt.Manager
	if cfg.Security.AdminJWTSecret != "" {
		tokens = jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Security.AdminJWTSecret),
			TTL:    cfg.Security.AdminTokenTTL,
			Issuer: cfg.Name,
		})
	} else {
		logger.Warn().Msg("ADMIN_JWT_SECRET not configured; question create/delete are unauthenticated")
	}

	triviaSvc := trivia.NewService(repo, trivia.ServiceOptions{}, logger)
	finder := triviaSvc.Finder()
	selector := triviaSvc.Selector()

	var sessions *quizsession.HTTPHandler
	if redisClient != nil {
		store := quizsession.NewStore(redisClient, cfg.Redis.SessionTTL)
		sessions = quizsession.NewHTTPHandler(quizsession.NewService(store, selector, finder, logger), logger)
	}

	playHandler := play.NewHandler(selector, finder, server.NewUpgrader(cfg.CORS), logger)

	handlers := server.Handlers{
		Trivia: trivia.NewHTTPHandler(triviaSvc, trivia.HTTPOptions{
			PageSize:    cfg.Trivia.QuestionsPerPage,
			MaxPageSize: cfg.Trivia.MaxPageSize,
		}, logger),
		Sessions: sessions,
		Play:     playHandler,
		Admin:    auth.RequireRole(tokens, jwt.RoleAdmin, logger),
		Store:    pinger,
		Redis:    redisClient,
	}

	var importWorker *importer.Worker
	if interval := cfg.Import.Interval; interval > 0 {
		importWorker = importer.NewWorker(
			NewImporter(cfg, triviaSvc, redisClient, logger),
			interval,
			cfg.Import.BatchSize,
			logger,
		)
	}

	httpServer := server.NewHTTPServer(cfg, logger, handlers)
	// hijacked websocket connections are not tracked by Shutdown
	httpServer.RegisterOnShutdown(playHandler.Hub().CloseAll)

	return &Application{
		cfg:          cfg,
		logger:       logger,
		closeStore:   closeStore,
		redis:        redisClient,
		http:         httpServer,
		importWorker: importWorker,
	}, nil
}

// NewImporter wires both public trivia sources into svc. rdb may be nil.
func NewImporter(cfg *config.App, svc *trivia.Service, rdb *redis.Client, logger zerolog.Logger) *importer.Importer {
	httpClient := &http.Client{Timeout: cfg.Import.HTTPTimeout}
	sources := []importer.Source{
		importer.NewOpenTDBClient(cfg.Import.OpenTDBURL, httpClient),
		importer.NewTriviaAPIClient(cfg.Import.TriviaAPIURL, cfg.Import.TriviaAPIKey, httpClient),
	}
	opts := importer.Options{FallbackCategory: cfg.Import.FallbackCategory}
	if rdb != nil {
		opts.Seen = importer.NewSeenCache(rdb, 0)
	}
	return importer.New(sources, svc, svc.Finder(), opts, logger)
}

// OpenStore opens the configured question store. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.App) (trivia.Repository, server.Pinger, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, store, func() { _ = store.Close() }, nil
	default:
		poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse postgres config: %w", err)
		}
		if cfg.Postgres.MaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repository.NewTriviaRepository(pool), pool, pool.Close, nil
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}
	a.bgWG.Wait()

	a.closeStore()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.importWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		a.bgWG.Add(1)
		go func() {
			defer a.bgWG.Done()
			if err := a.importWorker.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("import worker stopped")
			}
		}()
	}
}
