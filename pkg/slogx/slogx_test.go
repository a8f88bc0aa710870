package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/slogx"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		out = append(out, m)
	}
	return out
}

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "api", Env: "test", Level: "debug", Format: "json", Writer: &buf})

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := slogx.WithUserID(r.Context(), "u1")
		ctx = slogx.WithOperation(ctx, "Feed")
		slogx.FieldFailed(ctx)
		slogx.FromContext(ctx).Info("inside")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	logged := lines(t, &buf)
	require.Len(t, logged, 2)
	inside, access := logged[0], logged[1]

	require.Equal(t, "u1", inside["user_id"])
	require.Equal(t, "Feed", inside["operation"])
	require.Equal(t, "req-123", inside["req_id"])

	require.Equal(t, "http_request", access["msg"])
	require.Equal(t, "INFO", access["level"])
	require.EqualValues(t, http.StatusTeapot, access["status"])
	require.EqualValues(t, 5, access["bytes"])
	require.Equal(t, "u1", access["user_id"])
	require.Equal(t, "Feed", access["operation"])
	require.EqualValues(t, 1, access["failed_fields"])
}

func TestHTTPMiddlewareLogsServerErrorsAtErrorLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Format: "json", Writer: &buf})
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	logged := lines(t, &buf)
	require.Len(t, logged, 1)
	require.Equal(t, "ERROR", logged[0]["level"])
	require.NotContains(t, logged[0], "operation")
}

func TestHTTPMiddlewareSkipsProbes(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/livez", "/readyz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slogx.New(slogx.Config{Format: "json", Writer: &buf})
			h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
			require.Zero(t, buf.Len())
		})
	}
}

func TestContextHelpersOutsideRequest(t *testing.T) {
	t.Parallel()

	ctx := slogx.WithOperation(context.Background(), "Login")
	slogx.FieldFailed(ctx)
	require.NotNil(t, slogx.FromContext(ctx))
	require.NotNil(t, slogx.FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("verbose"))
}
