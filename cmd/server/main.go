package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nextgenacademy/internal/cache"
	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/config"
	"nextgenacademy/internal/database"
	"nextgenacademy/internal/grading"
	"nextgenacademy/internal/handlers"
	"nextgenacademy/internal/llm"
	"nextgenacademy/internal/logging"
	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/repository"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/service"
	"nextgenacademy/internal/store"
)

const (
	stepDatabase = "Database connection"
	stepCatalog  = "Loading lessons"
	stepOracle   = "Connecting the grading oracle"
	stepCache    = "Leaderboard cache"
	stepReady    = "Server ready"

	shutdownTimeout = 15 * time.Second
	sweepInterval   = time.Hour
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// backend is the storage chosen by configuration
type backend struct {
	store  store.Store
	filter service.NameFilter
	close  func() error
}

func openBackend(ctx context.Context, cfg *config.Config, c *catalog.Catalog, logger *zap.Logger) (*backend, error) {
	if !cfg.UsesDatabase() {
		st, err := store.OpenLocal(cfg.LocalStorePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using local profile store", zap.String("path", cfg.LocalStorePath))
		return &backend{store: st, close: func() error { return nil }}, nil
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	fsys, err := db.Migrations(cfg.MigrationsPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.RunMigrations(ctx, fsys, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	seeded, err := repository.NewLessonRepository(db).Seed(ctx, c.Lessons())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed lessons: %w", err)
	}
	logger.Info("lessons seeded", zap.Int("lessons", seeded))

	if cfg.BlocklistURL != "off" {
		url := cfg.BlocklistURL
		if url == "" {
			url = database.DefaultBlocklistURL
		}
		client := &http.Client{Timeout: 15 * time.Second}
		if _, err := db.SeedBlockedWords(ctx, client, url, logger); err != nil {
			logger.Warn("failed to seed name filter", zap.Error(err))
		}
	}

	repo := repository.NewProfileRepository(db)
	return &backend{store: repo, filter: repo, close: db.Close}, nil
}

func openProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Provider, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM(), logger)
	if errors.Is(err, llm.ErrNotConfigured) {
		logger.Warn("grading oracle not configured, submissions will not pass", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("grading oracle ready", zap.String("model", provider.ModelID()))
	return provider, nil
}

func openLeaderboard(ctx context.Context, cfg *config.Config, st store.Store, logger *zap.Logger) *cache.Leaderboard {
	if cfg.RedisAddr == "" {
		return nil
	}

	rc := cache.DefaultConfig(cfg.RedisAddr)
	rc.Password = cfg.RedisPassword
	rc.DB = cfg.RedisDB
	lb, err := cache.Open(ctx, rc)
	if err != nil {
		logger.Warn("leaderboard cache disabled", zap.Error(err))
		return nil
	}

	profiles, err := st.List(ctx)
	if err == nil {
		err = lb.Rebuild(ctx, profiles)
	}
	if err != nil {
		logger.Warn("failed to rebuild leaderboard cache", zap.Error(err))
	}
	return lb
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	startup := handlers.NewStartupStatus(stepCatalog, stepDatabase, stepOracle, stepCache, stepReady)

	startup.SetCurrentStep(stepCatalog)
	c, err := catalog.Default()
	if err != nil {
		return err
	}
	startup.CompleteStep(stepCatalog)

	startup.SetCurrentStep(stepDatabase)
	be, err := openBackend(ctx, cfg, c, logger)
	if err != nil {
		return err
	}
	defer be.close()
	startup.CompleteStep(stepDatabase)

	startup.SetCurrentStep(stepOracle)
	provider, err := openProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	oracle := grading.NewOracle(provider, cfg.LLMTimeout, logger)
	startup.CompleteStep(stepOracle)

	startup.SetCurrentStep(stepCache)
	var (
		recorder  service.StandingRecorder
		standings service.Standings
	)
	if lb := openLeaderboard(ctx, cfg, be.store, logger); lb != nil {
		defer lb.Close()
		recorder, standings = lb, lb
	}
	startup.CompleteStep(stepCache)

	if cfg.SessionSecret == "change-me-in-production" {
		logger.Warn("SESSION_SECRET is the default value; set it before deploying")
	}
	tokens, err := security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration)
	if err != nil {
		return err
	}

	presenter := mascot.NewPresenter()
	sessions := service.NewSessionManager(cfg.SessionDuration)
	syncer := service.NewSyncer(be.store, recorder, logger)
	authService := service.NewAuthService(be.store, sessions, tokens, be.filter, recorder, logger)
	gameService := service.NewGameService(c, progression.NewEngine(c), oracle, presenter, syncer, logger)
	boards := service.NewLeaderboardService(c, be.store, standings, logger)
	limiter := security.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	proxies, err := security.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService, presenter, logger),
		handlers.NewGameHandler(gameService, boards, logger),
		handlers.NewMiddleware(authService, limiter, proxies, logger),
		startup,
		logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The syncer outlives the server so writes from requests that finish
	// during graceful shutdown are still drained.
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", server.Addr))
		startup.CompleteStep(stepReady)
		startup.MarkReady()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer stopSync()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return syncer.Run(syncCtx) })
	g.Go(func() error { return sessions.Run(gctx, sweepInterval, logger) })
	g.Go(func() error { return limiter.Run(gctx, 10*time.Minute) })

	return g.Wait()
}
