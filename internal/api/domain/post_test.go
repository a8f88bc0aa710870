package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

func TestPostFilter(t *testing.T) {
	t.Parallel()

	viewer := domain.User{
		ID:            "viewer",
		Accreditation: domain.AccreditationNone,
		FollowingIDs:  []string{"friend"},
		HiddenPostIDs: []string{"hidden-post"},
		HiddenUserIDs: []string{"muted"},
	}
	post := func(id, author string, aud domain.Audience, cats ...domain.PostCategory) domain.Post {
		return domain.Post{ID: id, UserID: author, Audience: aud, Categories: cats}
	}

	t.Run("none degrades to everyone", func(t *testing.T) {
		f := domain.NewPostFilter(viewer, nil, domain.RoleFilterEveryone)
		require.True(t, f.Matches(post("1", "x", domain.AudienceEveryone), domain.RoleUser))
		require.True(t, f.Matches(post("2", "x", ""), domain.RoleUser))
		require.False(t, f.Matches(post("3", "x", domain.AudienceAccredited), domain.RoleUser))
	})

	t.Run("hidden posts and authors are excluded", func(t *testing.T) {
		f := domain.NewPostFilter(viewer, nil, domain.RoleFilterEveryone)
		require.False(t, f.Matches(post("hidden-post", "x", domain.AudienceEveryone), domain.RoleUser))
		require.False(t, f.Matches(post("4", "muted", domain.AudienceEveryone), domain.RoleUser))
	})

	t.Run("categories intersect", func(t *testing.T) {
		f := domain.NewPostFilter(viewer, []domain.PostCategory{domain.CategoryCrypto}, domain.RoleFilterEveryone)
		require.True(t, f.Matches(post("5", "x", "", domain.CategoryNews, domain.CategoryCrypto), domain.RoleUser))
		require.False(t, f.Matches(post("6", "x", "", domain.CategoryNews), domain.RoleUser))
	})

	t.Run("role filters", func(t *testing.T) {
		p := post("7", "friend", "")
		own := post("8", "viewer", "")
		stranger := post("9", "stranger", "")

		f := domain.NewPostFilter(viewer, nil, domain.RoleFilterProfessional)
		require.True(t, f.Matches(stranger, domain.RoleProfessional))
		require.False(t, f.Matches(stranger, domain.RoleUser))

		f = domain.NewPostFilter(viewer, nil, domain.RoleFilterFollowing)
		require.True(t, f.Matches(p, domain.RoleUser))
		require.True(t, f.Matches(own, domain.RoleUser))
		require.False(t, f.Matches(stranger, domain.RoleProfessional))

		f = domain.NewPostFilter(viewer, nil, domain.RoleFilterProfessionalFollowing)
		require.True(t, f.Matches(p, domain.RoleProfessional))
		require.False(t, f.Matches(p, domain.RoleUser))
	})

	t.Run("accredited viewer", func(t *testing.T) {
		v := viewer
		v.Accreditation = domain.AccreditationAccredited
		f := domain.NewPostFilter(v, nil, domain.RoleFilterEveryone)
		require.True(t, f.Matches(post("10", "x", domain.AudienceAccredited), domain.RoleUser))
		require.False(t, f.Matches(post("11", "x", domain.AudienceQualifiedClient), domain.RoleUser))
	})
}

func TestUserRef(t *testing.T) {
	t.Parallel()

	full := domain.FullUser(domain.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace"})
	u, ok := full.Full()
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", u.FullName())
	_, ok = full.Stub()
	require.False(t, ok)
	require.Equal(t, "u1", full.ID())

	stub := domain.StubUser(domain.UserStub{ID: "s1", Email: "s@example.com"})
	_, ok = stub.Full()
	require.False(t, ok)
	s, ok := stub.Stub()
	require.True(t, ok)
	require.Equal(t, "s@example.com", s.Email)
	require.Equal(t, "s1", stub.ID())
}
