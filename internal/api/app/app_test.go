package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Issuer:                "prometheus-test",
		Audience:              "prometheus-test",
		SigningKeyFile:        filepath.Join(dir, "keys", "signing.pem"),
		DatabaseFile:          filepath.Join(dir, "test.db"),
		PepperFile:            filepath.Join(dir, "pepper"),
		Env:                   "test",
		LogLevel:              "error",
		LogFormat:             "json",
		Port:                  0,
		ShutdownGracePeriod:   time.Second,
		HousekeepingInterval:  time.Hour,
		NotificationRetention: time.Hour,
	}
}

func TestNewWiresEverything(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		app.housekeepingService.Start()
		require.NoError(t, app.Shutdown())
	})

	_, err = os.Stat(cfg.SigningKeyFile)
	require.NoError(t, err, "signing key is created on first start")

	t.Run("readyz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("graphql", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/graphql",
			strings.NewReader(`{"query":"{ postCategories { value } }"}`))
		app.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.NotContains(t, out, "errors")
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `prometheus_api_http_requests_total{route="graphql",status="200"}`)
	})
}

func TestSigningKeySurvivesRestart(t *testing.T) {
	cfg := testConfig(t)

	first, err := InitKeys(cfg, discard())
	require.NoError(t, err)
	second, err := InitKeys(cfg, discard())
	require.NoError(t, err)

	assert.Equal(t, first.KeySet.PublicJWKS(), second.KeySet.PublicJWKS())
}

func TestEphemeralSigningKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.SigningKeyFile = ""

	km, err := InitKeys(cfg, discard())
	require.NoError(t, err)
	assert.True(t, km.IsReady())
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
