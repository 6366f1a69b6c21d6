package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "sentencer/internal/jwt_token"
	"sentencer/internal/platform/config"
)

func newTestApp(t *testing.T) (*config.Config, *app) {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := buildApp(context.Background(), cfg, logger, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return cfg, a
}

func newTestServer(t *testing.T, cfg *config.Config, a *app) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(newRouter(t.Context(), cfg, a, logger, reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServeComputeRoundTrip(t *testing.T) {
	cfg, a := newTestApp(t)
	srv := newTestServer(t, cfg, a)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/sentencing/compute", "", map[string]any{
		"category":     "fraud",
		"jurisdiction": "default",
		"amount":       5500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body struct {
		ID    string `json:"id"`
		Range struct {
			Min int `json:"min_months"`
			Max int `json:"max_months"`
		} `json:"range"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 6, body.Range.Min)
	assert.Equal(t, 14, body.Range.Max)

	got, err := http.Get(srv.URL + "/sentencing/computations/" + body.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
}

func TestServeRequiresTokenWhenKeyConfigured(t *testing.T) {
	cfg, a := newTestApp(t)
	cfg.Server.JWTSigningKey = "test-signing-key"
	srv := newTestServer(t, cfg, a)

	resp := postJSON(t, srv.URL+"/sentencing/compute", "", map[string]any{"category": "theft"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	token, err := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer).
		GenerateAccessToken("clerk-7", "sentencing", time.Hour)
	require.NoError(t, err)
	resp = postJSON(t, srv.URL+"/sentencing/compute", token, map[string]any{"category": "theft"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeEnforcesBatchRateLimit(t *testing.T) {
	cfg, a := newTestApp(t)
	cfg.RateLimit.BatchPerMinute = 1
	srv := newTestServer(t, cfg, a)

	batch := map[string]any{"cases": []map[string]any{{"category": "theft", "amount": 3000}}}
	resp := postJSON(t, srv.URL+"/sentencing/compute/batch", "", batch)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/sentencing/compute/batch", "", batch)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	resp = postJSON(t, srv.URL+"/sentencing/compute", "", map[string]any{"category": "theft"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRulesDumpThenCheck(t *testing.T) {
	t.Chdir(t.TempDir())
	rulesFormat = "yaml"
	t.Cleanup(func() { rulesFormat = "yaml" })

	var dumped bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&dumped)
	require.NoError(t, runRulesDump(cmd, nil))
	require.Contains(t, dumped.String(), "theft")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, dumped.Bytes(), 0o600))

	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runRulesCheck(cmd, []string{path}))
	assert.Contains(t, out.String(), "rules.yaml: ok")
}
