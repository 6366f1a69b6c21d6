package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sentencer/internal/ratelimit/metrics"
	"sentencer/internal/ratelimit/models"
	"sentencer/pkg/platform/httputil"
	metadata "sentencer/pkg/platform/middleware/metadata"
	"sentencer/pkg/requestcontext"
)

// Store checks and records request slots.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    Store
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

// WithLimit overrides the budget of one endpoint class. A non-positive
// request count leaves the class unlimited.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		m.limits[class] = limit
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		logger: logger,
		limits: map[models.EndpointClass]models.Limit{
			models.ClassCompute: {Requests: 120, Window: time.Minute},
			models.ClassBatch:   {Requests: 10, Window: time.Minute},
			models.ClassRead:    {Requests: 600, Window: time.Minute},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit budgets requests per caller and endpoint class. Callers are
// keyed by token subject when authenticated, otherwise by client IP.
// Limiter errors fail open.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := models.ClassifyRequest(r)
		limit, ok := m.limits[class]
		if m.disabled || !ok || limit.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		caller := requestcontext.Subject(ctx)
		if caller == "" {
			caller = "ip:" + metadata.GetClientIP(ctx)
		}

		result, err := m.store.Allow(ctx, string(class)+":"+caller, limit.Requests, limit.Window)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check rate limit",
				"request_id", requestcontext.RequestID(ctx),
				"class", class,
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}
		m.metrics.IncrementDecision(string(class), result.Allowed)

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"class", class,
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
