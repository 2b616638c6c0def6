package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena/theme"
	"github.com/eduspark/arena-platform/internal/config"
	"github.com/eduspark/arena-platform/internal/db/repository"
	"github.com/eduspark/arena-platform/internal/logging"
	"github.com/eduspark/arena-platform/internal/match"
	"github.com/eduspark/arena-platform/internal/metrics"
	"github.com/eduspark/arena-platform/internal/question"
	"github.com/eduspark/arena-platform/internal/server"
	"github.com/eduspark/arena-platform/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis and the arena services.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	arenaMetrics := metrics.New(promRegistry)

	questionRepo := repository.NewQuestionRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)

	questionCache := question.NewCache(redisClient, cfg.Arena.QuestionSetTTL)
	questionSvc := question.NewService(questionRepo, questionCache, logging.Component(logger, "question"))

	themes := theme.NewDefaultRegistry(logging.Component(logger, "theme"))
	wsHub := ws.NewHub(logging.Component(logger, "ws_hub"))
	stateCache := match.NewStateCache(redisClient, cfg.Arena.SnapshotTTL, logging.Component(logger, "state_cache"))

	matchSvc := match.NewService(match.ServiceOptions{
		Themes:           themes,
		Questions:        questionSvc,
		Archive:          matchRepo,
		Cache:            stateCache,
		Hub:              wsHub,
		Metrics:          arenaMetrics,
		QuestionDeadline: cfg.Arena.QuestionDeadline,
		EventCapacity:    cfg.Arena.EventCapacity,
		DefaultCount:     cfg.Arena.DefaultQuestionCount,
		Logger:           logging.Component(logger, "match"),
	})

	matchHandlers := match.NewHTTPHandlers(matchSvc, logger)
	matchWSHandler := match.NewWSHandler(matchSvc, wsHub, logging.Component(logger, "match_ws"))

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, promRegistry, server.MatchRoutes{
		StartMatch:   matchHandlers.StartMatch,
		SubmitAnswer: matchHandlers.SubmitAnswer,
		CancelMatch:  matchHandlers.CancelMatch,
		GetMatch:     matchHandlers.GetMatch,
		GetEvents:    matchHandlers.GetEvents,
		GetResult:    matchHandlers.GetResult,
		ListMatches:  matchHandlers.ListMatches,
		ListResults:  matchHandlers.ListResults,
		ListThemes:   matchHandlers.ListThemes,
		WebSocket:    matchWSHandler.HandleWebSocket,
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
