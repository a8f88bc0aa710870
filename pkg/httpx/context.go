package httpx

import (
	"context"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeySubject  ctxKey = "subject"
	ctxKeyClaims   ctxKey = "claims"
	ctxKeyClientIP ctxKey = "client_ip"
)

// SubjectFromContext returns the verified token subject, if the request
// carried a valid bearer token.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeySubject).(string)
	return s, ok && s != ""
}

func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// ContextWithSubject is what the authn middleware does after verifying a
// token. Tests use it to act as a user.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subject)
}

// ClientIPFromContext returns the address recorded by ClientIP.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKeyClientIP).(string)
	return ip
}
