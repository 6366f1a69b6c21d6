package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	jwttoken "sentencer/internal/jwt_token"
	"sentencer/internal/platform/config"
	"sentencer/internal/platform/httpserver"
	ratelimitmetrics "sentencer/internal/ratelimit/metrics"
	ratelimit "sentencer/internal/ratelimit/middleware"
	rlmodels "sentencer/internal/ratelimit/models"
	"sentencer/internal/ratelimit/store/bucket"
	"sentencer/internal/sentencing/handler"
	"sentencer/pkg/platform/httputil"
	authmw "sentencer/pkg/platform/middleware/auth"
	metadata "sentencer/pkg/platform/middleware/metadata"
	request "sentencer/pkg/platform/middleware/request"
	"sentencer/pkg/platform/middleware/requesttime"
)

const tokenIssuer = "sentencer"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the sentencing HTTP API.

Routes live under /sentencing. /healthz and /metrics are always public;
the sentencing routes require a bearer token when a JWT signing key is
configured.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server, newRouter(ctx, cfg, a, logger, prometheus.DefaultRegisterer, promhttp.Handler()))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting sentencer", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			_ = a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Error("failed to release resources", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newRouter mounts health, metrics and the sentencing API. Idle rate limit
// windows are swept until ctx ends.
func newRouter(ctx context.Context, cfg *config.Config, a *app, logger *slog.Logger, reg prometheus.Registerer, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(request.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "rules_version": a.service.RulesVersion()}
		if a.redis != nil {
			if err := a.redis.Health(r.Context()); err != nil {
				status["status"] = "degraded"
				status["redis"] = err.Error()
			}
		}
		httputil.WriteJSON(w, http.StatusOK, status)
	})
	r.Handle("/metrics", metricsHandler)

	buckets := bucket.NewInMemoryBucketStore()
	go sweepBuckets(ctx, buckets, time.Minute, logger)
	limiter := ratelimit.New(buckets, logger,
		ratelimit.WithDisabled(!cfg.RateLimit.Enabled),
		ratelimit.WithMetrics(ratelimitmetrics.New(reg)),
		ratelimit.WithLimit(rlmodels.ClassCompute, rlmodels.Limit{Requests: cfg.RateLimit.ComputePerMinute, Window: time.Minute}),
		ratelimit.WithLimit(rlmodels.ClassBatch, rlmodels.Limit{Requests: cfg.RateLimit.BatchPerMinute, Window: time.Minute}),
		ratelimit.WithLimit(rlmodels.ClassRead, rlmodels.Limit{Requests: cfg.RateLimit.ReadPerMinute, Window: time.Minute}),
	)

	h := handler.New(a.service, logger)
	r.Group(func(r chi.Router) {
		if key := cfg.Server.JWTSigningKey; key != "" {
			validator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(key, tokenIssuer))
			r.Use(authmw.RequireAuth(validator, logger))
		}
		r.Use(limiter.RateLimit)
		h.Register(r)
	})
	return r
}

func sweepBuckets(ctx context.Context, store *bucket.InMemoryBucketStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Debug("swept idle rate limit windows", "removed", n)
			}
		}
	}
}
