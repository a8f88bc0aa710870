package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheusfi/prometheus/pkg/httpx"
	"github.com/prometheusfi/prometheus/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestOptionalAuthn(t *testing.T) {
	t.Parallel()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "prometheus", Audience: []string{"prometheus-api"}})
	require.NoError(t, err)

	var (
		subject string
		authed  bool
	)
	h := httpx.OptionalAuthn(km.Verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, authed = httpx.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(authz string) int {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("valid token sets the subject", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("01J00000000000000000000001", "user", "a@example.com", time.Hour, "prometheus", []string{"prometheus-api"}, time.Now())
		token, err := km.Signer().Sign(claims)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, serve("Bearer "+token))
		require.True(t, authed)
		require.Equal(t, "01J00000000000000000000001", subject)
	})

	t.Run("missing token is anonymous", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(""))
		require.False(t, authed)
	})

	t.Run("garbage token is anonymous", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve("Bearer not.a.jwt"))
		require.False(t, authed)
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	var got string
	h := httpx.ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httpx.ClientIPFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "198.51.100.7", got)
}

func TestWriteCacheable(t *testing.T) {
	t.Parallel()

	body := []byte("type Query { ping: Boolean }")
	serve := func(etag string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/graphql/schema", nil)
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		rec := httptest.NewRecorder()
		httpx.WriteCacheable(rec, req, "text/plain", body)
		return rec
	}

	first := serve("")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, string(body), first.Body.String())
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	again := serve(etag)
	require.Equal(t, http.StatusNotModified, again.Code)
	require.Empty(t, again.Body.String())

	stale := serve(`"something-else"`)
	require.Equal(t, http.StatusOK, stale.Code)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusAccepted, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
