package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

func TestClaimValidation(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claims := func(exp, nbf time.Duration) *jwtx.Claims {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "prometheus",
			Audience: []string{"api", "chat"},
		}}
		if exp != 0 {
			c.ExpiresAt = jwt.NewNumericDate(now.Add(exp))
		}
		if nbf != 0 {
			c.NotBefore = jwt.NewNumericDate(now.Add(nbf))
		}
		return c
	}

	t.Run("issuer", func(t *testing.T) {
		c := claims(0, 0)
		require.NoError(t, c.ValidateIssuer("prometheus"))
		require.NoError(t, c.ValidateIssuer(""))
		require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
	})

	t.Run("audience", func(t *testing.T) {
		c := claims(0, 0)
		require.NoError(t, c.ValidateAudience([]string{"chat"}))
		require.NoError(t, c.ValidateAudience([]string{"x", "api"}))
		require.NoError(t, c.ValidateAudience(nil))
		require.ErrorIs(t, c.ValidateAudience([]string{"admin"}), jwtx.ErrAudience)
	})

	t.Run("expiry", func(t *testing.T) {
		require.NoError(t, claims(time.Minute, 0).ValidateExpiry())
		require.NoError(t, claims(0, 0).ValidateExpiry())
		require.ErrorIs(t, claims(-time.Minute, 0).ValidateExpiry(), jwtx.ErrExpired)
		require.ErrorIs(t, claims(0, time.Minute).ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("leeway", func(t *testing.T) {
		require.NoError(t, claims(-10*time.Second, 0).ValidateExpiryWithLeeway(30*time.Second))
		require.ErrorIs(t, claims(-2*time.Minute, 0).ValidateExpiryWithLeeway(30*time.Second), jwtx.ErrExpired)
	})
}
