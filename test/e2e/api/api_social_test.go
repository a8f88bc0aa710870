package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/apisdk"
)

func TestSocialFlow(t *testing.T) {
	t.Parallel()

	container := setupAPIContainer(t)
	client := apisdk.NewSDKClient(container.BaseURL)
	ctx := t.Context()

	author := onboardMember(t, container, client, "author@example.com", "Ada", "Lovelace")
	reader := onboardMember(t, container, client, "reader@example.com", "Alan", "Turing")

	authorAccount, err := author.Account(ctx)
	require.NoError(t, err)
	_, err = author.SaveFinancialStatus(ctx, "INDIVIDUAL", []string{"MIN_INCOME"})
	require.NoError(t, err)

	t.Run("following notifies the followed member", func(t *testing.T) {
		me, err := reader.Follow(ctx, authorAccount.ID)
		require.NoError(t, err)
		require.Contains(t, me.FollowingIDs, authorAccount.ID)

		notes, err := author.Notifications(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, notes)
		require.Equal(t, "FOLLOWED_BY_USER", notes[0].Type)
		require.True(t, notes[0].IsNew)

		require.NoError(t, author.ReadNotifications(ctx))
		notes, err = author.Notifications(ctx)
		require.NoError(t, err)
		for _, n := range notes {
			require.False(t, n.IsNew)
		}
	})

	t.Run("audience gates the feed", func(t *testing.T) {
		public, err := author.CreatePost(ctx, apisdk.PostInput{Body: "Hello everyone", Audience: apisdk.AudienceEveryone})
		require.NoError(t, err)
		gated, err := author.CreatePost(ctx, apisdk.PostInput{Body: "Accredited only", Audience: apisdk.AudienceAccredited})
		require.NoError(t, err)

		feed, err := reader.Feed(ctx, nil, apisdk.RoleFilterEveryone)
		require.NoError(t, err)

		var ids []string
		for _, p := range feed {
			ids = append(ids, p.ID)
		}
		require.Contains(t, ids, public.ID)
		require.NotContains(t, ids, gated.ID, "an unaccredited reader should not see accredited posts")

		feed, err = author.Feed(ctx, nil, apisdk.RoleFilterEveryone)
		require.NoError(t, err)
		require.Len(t, feed, 2)
	})

	t.Run("search finds members", func(t *testing.T) {
		res, err := reader.GlobalSearch(ctx, "lovelace")
		require.NoError(t, err)
		require.NotEmpty(t, res.Users)
	})
}
