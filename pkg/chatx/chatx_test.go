package chatx_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/chatx"
)

func TestToken(t *testing.T) {
	t.Parallel()

	t.Run("signs user_id with the secret", func(t *testing.T) {
		raw, err := chatx.NewIssuer("s3cr3t").Token("01HZX0000000000000000000AB")
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte("s3cr3t"), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		require.NoError(t, err)
		require.True(t, tok.Valid)
		require.Equal(t, "01HZX0000000000000000000AB", claims["user_id"])
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := chatx.NewIssuer("").Token("u")
		require.ErrorIs(t, err, chatx.ErrNoSecret)
	})
}
