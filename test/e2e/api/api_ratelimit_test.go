package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/apisdk"
)

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	container := setupAPIContainerWithDefaultRateLimits(t)
	client := apisdk.NewSDKClient(container.BaseURL)

	t.Run("login is throttled after five attempts", func(t *testing.T) {
		t.Parallel()

		for i := range 5 {
			_, err := client.Login(t.Context(), "nobody@example.com", "wrong-password")
			require.Error(t, err)
			require.NotEqual(t, "TOO_MANY_REQUESTS", string(apisdk.CodeOf(err)),
				"attempt %d should not be throttled", i+1)
		}

		_, err := client.Login(t.Context(), "nobody@example.com", "wrong-password")
		assertCode(t, err, "TOO_MANY_REQUESTS", "sixth login attempt")
	})

	t.Run("public queries are not throttled at that rate", func(t *testing.T) {
		t.Parallel()

		for range 10 {
			_, err := client.PostCategories(t.Context())
			require.NoError(t, err)
		}
	})
}
