package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// OptionalAuthn verifies a bearer token when one is present. Requests without
// a token, or with one that fails verification, continue anonymously; the
// GraphQL layer decides per field whether that is allowed.
func OptionalAuthn(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.WithUserID(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[7:])
	return raw, raw != ""
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeySubject, c.Subject)
	ctx = context.WithValue(ctx, ctxKeyClaims, c)
	return ctx
}

func contextWithValue(ctx context.Context, k ctxKey, v any) context.Context {
	return context.WithValue(ctx, k, v)
}
