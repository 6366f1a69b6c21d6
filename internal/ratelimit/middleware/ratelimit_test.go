package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentencer/internal/ratelimit/models"
	"sentencer/internal/ratelimit/store/bucket"
	metadata "sentencer/pkg/platform/middleware/metadata"
	"sentencer/pkg/testutil"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("store unavailable")
}

func newLimited(t *testing.T, store Store, opts ...Option) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := New(store, logger, opts...)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return metadata.ClientMetadata(m.RateLimit(ok))
}

func serve(t *testing.T, h http.Handler, method, path, subject string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewRequest(t, method, path)
	req.RemoteAddr = "203.0.113.7:41000"
	if subject != "" {
		req = testutil.WithSubject(req, subject)
	}
	return testutil.DoRequest(h, req)
}

func TestRateLimitDeniesOverBudget(t *testing.T) {
	h := newLimited(t, bucket.NewInMemoryBucketStore(),
		WithLimit(models.ClassBatch, models.Limit{Requests: 2, Window: time.Minute}))

	for range 2 {
		w := serve(t, h, http.MethodPost, "/sentencing/compute/batch", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(t, h, http.MethodPost, "/sentencing/compute/batch", "")
	testutil.AssertStatusAndError(t, w, http.StatusTooManyRequests, "rate_limit_exceeded")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = serve(t, h, http.MethodPost, "/sentencing/compute", "")
	assert.Equal(t, http.StatusOK, w.Code, "classes have separate budgets")
}

func TestRateLimitKeysBySubject(t *testing.T) {
	h := newLimited(t, bucket.NewInMemoryBucketStore(),
		WithLimit(models.ClassRead, models.Limit{Requests: 1, Window: time.Minute}))

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/sentencing/computations", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(t, h, http.MethodGet, "/sentencing/computations", "alice").Code)
	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/sentencing/computations", "bob").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := newLimited(t, failingStore{})
	w := serve(t, h, http.MethodPost, "/sentencing/compute", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := newLimited(t, failingStore{}, WithDisabled(true))
	w := serve(t, h, http.MethodGet, "/sentencing/computations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
