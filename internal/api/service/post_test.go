package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/mq"
)

func newPosts(t *testing.T) (*service.PostService, *fakeMedia, *recordingPublisher) {
	t.Helper()

	media := &fakeMedia{}
	pub := &recordingPublisher{}
	return &service.PostService{Store: newStore(t), Media: media, Publisher: pub}, media, pub
}

func TestCreatePostAudience(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newPosts(t)
	fresh := seedUser(t, svc.Store, "fresh@example.com", withLevel(domain.AccreditationNone))
	accredited := seedUser(t, svc.Store, "acc@example.com", withLevel(domain.AccreditationAccredited))

	t.Run("unaccredited author may post to everyone", func(t *testing.T) {
		t.Parallel()
		p, err := svc.Create(ctx, fresh, service.NewPost{Body: "hello"})
		require.NoError(t, err)
		assert.Equal(t, domain.AudienceEveryone, p.Audience)
	})

	t.Run("audience above author level", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, fresh, service.NewPost{Body: "x", Audience: domain.AudienceAccredited})
		require.ErrorIs(t, err, service.ErrAudienceTooHigh)

		_, err = svc.Create(ctx, accredited, service.NewPost{Body: "x", Audience: domain.AudienceQualifiedClient})
		require.ErrorIs(t, err, service.ErrAudienceTooHigh)
	})

	t.Run("unknown company", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, accredited, service.NewPost{Body: "x", CompanyID: idx.New().String()})
		require.ErrorIs(t, err, service.ErrCompanyNotFound)
	})
}

func TestGetPostVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newPosts(t)
	author := seedUser(t, svc.Store, "author@example.com", withLevel(domain.AccreditationAccredited))
	fresh := seedUser(t, svc.Store, "fresh@example.com", withLevel(domain.AccreditationNone))

	open, err := svc.Create(ctx, author, service.NewPost{Body: "open", Audience: domain.AudienceEveryone})
	require.NoError(t, err)
	gated, err := svc.Create(ctx, author, service.NewPost{Body: "gated", Audience: domain.AudienceAccredited})
	require.NoError(t, err)

	_, err = svc.Get(ctx, fresh, open.ID)
	require.NoError(t, err, "none reads as everyone for posts")

	_, err = svc.Get(ctx, fresh, gated.ID)
	require.ErrorIs(t, err, service.ErrPostNotVisible)

	_, err = svc.Get(ctx, author, gated.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, author, idx.New().String())
	require.ErrorIs(t, err, service.ErrPostNotFound)

	feed, err := svc.Feed(ctx, fresh, nil, "")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, open.ID, feed[0].ID)
}

func TestFeedReadsNoneAsEveryone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newPosts(t)
	author := seedUser(t, svc.Store, "author@example.com", withRole(domain.RoleProfessional), withLevel(domain.AccreditationQualifiedPurchaser))
	muted := seedUser(t, svc.Store, "muted@example.com", withLevel(domain.AccreditationEveryone))
	fresh := seedUser(t, svc.Store, "fresh@example.com", withLevel(domain.AccreditationNone))
	basic := seedUser(t, svc.Store, "basic@example.com", withLevel(domain.AccreditationEveryone))

	var hiddenPost string
	for i, aud := range []domain.Audience{
		domain.AudienceEveryone,
		domain.AudienceEveryone,
		domain.AudienceAccredited,
		domain.AudienceQualifiedClient,
		domain.AudienceQualifiedPurchaser,
	} {
		p, err := svc.Create(ctx, author, service.NewPost{Body: "post", Audience: aud, Categories: []domain.PostCategory{domain.CategoryNews}})
		require.NoError(t, err)
		if i == 1 {
			hiddenPost = p.ID
		}
	}
	_, err := svc.Create(ctx, muted, service.NewPost{Body: "noise", Audience: domain.AudienceEveryone})
	require.NoError(t, err)

	reload := func(u domain.User) domain.User {
		require.NoError(t, svc.Store.Users().HidePost(ctx, u.ID, hiddenPost))
		require.NoError(t, svc.Store.Users().HideUser(ctx, u.ID, muted.ID))
		got, err := svc.Store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		return got
	}
	fresh, basic = reload(fresh), reload(basic)
	require.Equal(t, fresh.HiddenPostIDs, basic.HiddenPostIDs)
	require.Equal(t, fresh.HiddenUserIDs, basic.HiddenUserIDs)

	ids := func(posts []domain.Post) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	for _, rf := range []domain.PostRoleFilter{
		domain.RoleFilterEveryone,
		domain.RoleFilterProfessional,
		domain.RoleFilterFollowing,
		domain.RoleFilterProfessionalFollowing,
	} {
		t.Run(string(rf), func(t *testing.T) {
			noneFeed, err := svc.Feed(ctx, fresh, nil, rf)
			require.NoError(t, err)
			everyoneFeed, err := svc.Feed(ctx, basic, nil, rf)
			require.NoError(t, err)
			require.Equal(t, ids(everyoneFeed), ids(noneFeed))
		})
	}

	feed, err := svc.Feed(ctx, fresh, nil, domain.RoleFilterEveryone)
	require.NoError(t, err)
	require.Len(t, feed, 1, "one open post left after hiding a post and muting an author")
}

func TestCreatePostMentions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, pub := newPosts(t)
	author := seedUser(t, svc.Store, "author@example.com")
	friend := seedUser(t, svc.Store, "friend@example.com")
	stub := domain.UserStub{ID: idx.New().String(), Email: "stub@example.com"}
	require.NoError(t, svc.Store.Users().CreateStub(ctx, stub))

	p, err := svc.Create(ctx, author, service.NewPost{
		Body:       "hi @friend",
		Categories: []domain.PostCategory{domain.CategoryIdeas, domain.CategoryIdeas},
		MentionIDs: []string{friend.ID, author.ID, stub.ID, friend.ID, idx.New().String()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{friend.ID}, p.MentionIDs)
	assert.Equal(t, []domain.PostCategory{domain.CategoryIdeas}, p.Categories)

	notes, err := svc.Store.Notifications().ListNotifications(ctx, friend.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationMentioned, notes[0].Type)
	assert.Equal(t, p.ID, notes[0].PostID)

	assert.Equal(t, []string{mq.PostCreated}, pub.keys())
}

func TestCreatePostMedia(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("moved and recorded", func(t *testing.T) {
		t.Parallel()
		svc, media, _ := newPosts(t)
		author := seedUser(t, svc.Store, "author@example.com")

		p, err := svc.Create(ctx, author, service.NewPost{Body: "clip", Media: "clip.mp4"})
		require.NoError(t, err)
		require.Len(t, media.moved, 1)
		assert.Equal(t, media.moved[0], p.MediaURL)
		assert.Equal(t, "uploads/posts/"+author.ID+"/"+p.ID+"/clip.mp4", p.MediaURL)
		assert.False(t, p.MediaReady)
	})

	t.Run("failed move removes the post", func(t *testing.T) {
		t.Parallel()
		svc, media, pub := newPosts(t)
		media.moveErr = errBoom
		author := seedUser(t, svc.Store, "author@example.com")
		friend := seedUser(t, svc.Store, "friend@example.com")

		_, err := svc.Create(ctx, author, service.NewPost{
			Body: "pic", Media: "pic.png", MentionIDs: []string{friend.ID},
		})
		require.ErrorIs(t, err, errBoom)

		feed, err := svc.Feed(ctx, author, nil, domain.RoleFilterEveryone)
		require.NoError(t, err)
		assert.Empty(t, feed)

		notes, err := svc.Store.Notifications().ListNotifications(ctx, friend.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)
		assert.Empty(t, pub.keys())
	})
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newPosts(t)
	author := seedUser(t, svc.Store, "author@example.com")
	other := seedUser(t, svc.Store, "other@example.com")

	p, err := svc.Create(ctx, author, service.NewPost{Body: "mine", MentionIDs: []string{other.ID}})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, other, p.ID), service.ErrNotPostAuthor)
	require.NoError(t, svc.Delete(ctx, author, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, author, p.ID), service.ErrPostNotFound)

	notes, err := svc.Store.Notifications().ListNotifications(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, notes, "mention notifications go with the post")
}
