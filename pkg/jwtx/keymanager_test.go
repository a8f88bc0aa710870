package jwtx_test

import (
	"crypto/x509"
	"encoding/pem"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

const exampleIssuer = "https://api.prometheus.test"

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer, Audience: []string{"api"}})
	require.NoError(t, err)
	require.True(t, km.IsReady())
	require.Equal(t, jwtx.AlgorithmEdDSA, km.Signer().Alg())

	claims := jwtx.NewAccessClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "professional", "pro@example.com",
		time.Hour, exampleIssuer, []string{"api"}, time.Now().UTC())
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)

	got, err := km.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, "professional", got.Role)
	require.Equal(t, "pro@example.com", got.Email)
	require.NotEmpty(t, got.ID)

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "elsewhere"})
		require.NoError(t, err)
		require.NoError(t, other.KeySet.AddSigner(km.Signer()))
		_, err = other.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown key", func(t *testing.T) {
		other, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
		require.NoError(t, err)
		_, err = other.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("expired", func(t *testing.T) {
		old := jwtx.NewAccessClaims("u", "user", "", time.Minute, exampleIssuer, []string{"api"}, time.Now().Add(-time.Hour))
		tok, err := km.Signer().Sign(old)
		require.NoError(t, err)
		_, err = km.Verifier.Verify(tok)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := km.Verifier.Verify("not.a.token")
		require.Error(t, err)
	})
}

func TestLoadOrGenerateKeyManagerPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "signing.pem")
	opts := jwtx.KeyManagerOptions{Issuer: exampleIssuer}

	first, err := jwtx.LoadOrGenerateKeyManager(path, opts)
	require.NoError(t, err)
	token, err := first.Signer().Sign(jwtx.NewAccessClaims("u", "user", "", time.Hour, exampleIssuer, nil, time.Now()))
	require.NoError(t, err)

	second, err := jwtx.LoadOrGenerateKeyManager(path, opts)
	require.NoError(t, err)
	require.Equal(t, first.Signer().KID(), second.Signer().KID())

	_, err = second.Verifier.Verify(token)
	require.NoError(t, err)
}

func TestJWKS(t *testing.T) {
	t.Parallel()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.NoError(t, err)

	jwks := km.KeySet.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.Equal(t, km.Signer().KID(), jwks.Keys[0].Kid)

	pemStr, err := jwks.Keys[0].PEM()
	require.NoError(t, err)
	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block)
	_, err = x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	_, err = jwtx.JWK{Kty: "RSA"}.PEM()
	require.Error(t, err)
	require.Error(t, jwtx.NewKeySet().AddJWK(jwtx.JWK{Kty: "OKP", Crv: "Ed25519", X: "!!"}))
}
