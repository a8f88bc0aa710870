package service

import (
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

// TokenIssuer signs access tokens for registered users.
type TokenIssuer struct {
	Signer   jwtx.Signer
	Issuer   string
	Audience []string
	TTL      time.Duration
}

func (t *TokenIssuer) Issue(u domain.User) (string, error) {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(u.ID, string(u.Role), u.Email, ttl, t.Issuer, t.Audience, time.Now())
	return t.Signer.Sign(claims)
}
