package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/config"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// MatchRoutes carries the match endpoints so the server package never imports
// the match package.
type MatchRoutes struct {
	StartMatch   http.HandlerFunc
	SubmitAnswer http.HandlerFunc
	CancelMatch  http.HandlerFunc
	GetMatch     http.HandlerFunc
	GetEvents    http.HandlerFunc
	GetResult    http.HandlerFunc
	ListMatches  http.HandlerFunc
	ListResults  http.HandlerFunc
	ListThemes   http.HandlerFunc
	WebSocket    http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics) plus the arena API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, registry *prometheus.Registry, routes MatchRoutes) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ready":true}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if routes.StartMatch != nil {
		mux.HandleFunc("POST /v1/matches", routes.StartMatch)
		mux.HandleFunc("GET /v1/matches", routes.ListMatches)
		mux.HandleFunc("GET /v1/matches/{id}", routes.GetMatch)
		mux.HandleFunc("POST /v1/matches/{id}/answers", routes.SubmitAnswer)
		mux.HandleFunc("POST /v1/matches/{id}/cancel", routes.CancelMatch)
		mux.HandleFunc("GET /v1/matches/{id}/events", routes.GetEvents)
		mux.HandleFunc("GET /v1/matches/{id}/result", routes.GetResult)
		mux.HandleFunc("GET /v1/results", routes.ListResults)
		mux.HandleFunc("GET /v1/themes", routes.ListThemes)
	}

	if routes.WebSocket != nil {
		mux.HandleFunc("/ws/arena", routes.WebSocket)
	} else {
		mux.HandleFunc("/ws/arena", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "WebSocket handler not yet integrated", http.StatusNotImplemented)
		})
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
