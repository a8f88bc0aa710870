package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/internal/api/store/drivers/sqlite"
	"github.com/prometheusfi/prometheus/pkg/cryptox"
	"github.com/prometheusfi/prometheus/pkg/idx"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, email string, role domain.Role, level domain.Accreditation) domain.User {
	t.Helper()

	u := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		PasswordHash:  "hash",
		FirstName:     "First",
		LastName:      email,
		Role:          role,
		Accreditation: level,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUserRefResolution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	full := seedUser(t, s, "full@example.com", domain.RoleUser, domain.AccreditationNone)
	stub := domain.UserStub{ID: idx.New().String(), Email: "stub@example.com", FirstName: "Sam"}
	require.NoError(t, s.Users().CreateStub(ctx, stub))

	ref, err := s.Users().GetUserRef(ctx, full.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserKindFull, ref.Kind)

	ref, err = s.Users().GetUserRef(ctx, stub.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserKindStub, ref.Kind)
	got, ok := ref.Stub()
	require.True(t, ok)
	require.Equal(t, "Sam", got.FirstName)

	_, err = s.Users().GetUserByID(ctx, stub.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().CreateStub(ctx, domain.UserStub{ID: idx.New().String(), Email: "stub@example.com"}),
		store.ErrAlreadyExists)

	t.Run("promote keeps the id", func(t *testing.T) {
		require.NoError(t, s.Users().PromoteStub(ctx, domain.User{
			ID: stub.ID, PasswordHash: "h", FirstName: "Sam", LastName: "Stone",
			Role: domain.RoleUser, Accreditation: domain.AccreditationNone,
		}))
		u, err := s.Users().GetUserByID(ctx, stub.ID)
		require.NoError(t, err)
		require.Equal(t, "Stone", u.LastName)
		require.Equal(t, domain.AccreditationNone, u.Accreditation)

		require.ErrorIs(t, s.Users().PromoteStub(ctx, u), store.ErrNotFound)
	})
}

func TestFollowAndHide(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	a := seedUser(t, s, "a@example.com", domain.RoleUser, domain.AccreditationEveryone)
	b := seedUser(t, s, "b@example.com", domain.RoleUser, domain.AccreditationEveryone)

	created, err := s.Users().Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, created)
	created, err = s.Users().Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.False(t, created)

	require.NoError(t, s.Users().HideUser(ctx, a.ID, b.ID))
	require.NoError(t, s.Users().HideUser(ctx, a.ID, b.ID))

	gotA, err := s.Users().GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, []string{b.ID}, gotA.FollowingIDs)
	require.Equal(t, []string{b.ID}, gotA.HiddenUserIDs)

	gotB, err := s.Users().GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID}, gotB.FollowerIDs)

	require.NoError(t, s.Users().Unfollow(ctx, a.ID, b.ID))
	require.NoError(t, s.Users().Unfollow(ctx, a.ID, b.ID))
	gotB, err = s.Users().GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, gotB.FollowerIDs)
}

func TestFundsByLevelAndManagers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	manager := seedUser(t, s, "m@example.com", domain.RoleProfessional, domain.AccreditationQualifiedPurchaser)
	company := domain.Company{ID: idx.New().String(), Name: "Acme Capital"}
	require.NoError(t, s.Companies().CreateCompany(ctx, company))
	other := domain.Company{ID: idx.New().String(), Name: "No Funds Inc"}
	require.NoError(t, s.Companies().CreateCompany(ctx, other))

	var ids []string
	for _, level := range []domain.Accreditation{
		domain.AccreditationEveryone, domain.AccreditationAccredited, domain.AccreditationQualifiedPurchaser,
	} {
		f := domain.Fund{
			ID: idx.New().String(), Name: "Fund " + string(level), CompanyID: company.ID,
			ManagerID: manager.ID, Level: level, Highlights: []string{"Top decile returns"},
		}
		require.NoError(t, s.Funds().CreateFund(ctx, f))
		ids = append(ids, f.ID)
	}

	got, err := s.Funds().ListFundsByLevels(ctx, domain.LevelsAtOrBelow(domain.AccreditationAccredited))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, f := range got {
		require.True(t, domain.CanAccess(domain.AccreditationAccredited, f.Level))
	}
	require.Equal(t, []string{"Top decile returns"}, got[0].Highlights)

	m, err := s.Users().GetUserByID(ctx, manager.ID)
	require.NoError(t, err)
	require.Equal(t, ids, m.ManagedFundsIDs)

	managers, err := s.Users().ListFundManagers(ctx, false)
	require.NoError(t, err)
	require.Len(t, managers, 1)

	companies, err := s.Companies().ListFundCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.True(t, companies[0].IsFundCompany)

	c, err := s.Companies().GetCompanyByID(ctx, other.ID)
	require.NoError(t, err)
	require.False(t, c.IsFundCompany)
}

func TestFindPostsMatchesDomainFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	viewer := seedUser(t, s, "viewer@example.com", domain.RoleUser, domain.AccreditationNone)
	pro := seedUser(t, s, "pro@example.com", domain.RoleProfessional, domain.AccreditationQualifiedPurchaser)
	muted := seedUser(t, s, "muted@example.com", domain.RoleUser, domain.AccreditationEveryone)
	_, err := s.Users().Follow(ctx, viewer.ID, pro.ID)
	require.NoError(t, err)
	require.NoError(t, s.Users().HideUser(ctx, viewer.ID, muted.ID))

	roles := map[string]domain.Role{viewer.ID: viewer.Role, pro.ID: pro.Role, muted.ID: muted.Role}
	var seeded []domain.Post
	mk := func(author string, aud domain.Audience, cats ...domain.PostCategory) domain.Post {
		p := domain.Post{ID: idx.New().String(), UserID: author, Body: "body", Audience: aud, Categories: cats, MediaReady: true}
		require.NoError(t, s.Posts().CreatePost(ctx, p))
		seeded = append(seeded, p)
		return p
	}
	visible := mk(pro.ID, "", domain.CategoryCrypto)
	mk(pro.ID, domain.AudienceAccredited)
	mk(muted.ID, domain.AudienceEveryone)
	mk(pro.ID, domain.AudienceQualifiedPurchaser, domain.CategoryNews)
	mk(muted.ID, domain.AudienceQualifiedClient, domain.CategoryCrypto)
	hidden := mk(pro.ID, domain.AudienceEveryone, domain.CategoryNews)
	require.NoError(t, s.Users().HidePost(ctx, viewer.ID, hidden.ID))
	own := mk(viewer.ID, domain.AudienceEveryone, domain.CategoryNews)

	v, err := s.Users().GetUserByID(ctx, viewer.ID)
	require.NoError(t, err)

	ids := func(posts []domain.Post) []string {
		var out []string
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("everyone", func(t *testing.T) {
		got, err := s.Posts().FindPosts(ctx, domain.NewPostFilter(v, nil, domain.RoleFilterEveryone))
		require.NoError(t, err)
		require.Equal(t, []string{own.ID, visible.ID}, ids(got))
		require.Equal(t, domain.AudienceEveryone, got[1].Audience)
		require.Equal(t, []domain.PostCategory{domain.CategoryCrypto}, got[1].Categories)
	})

	t.Run("categories", func(t *testing.T) {
		got, err := s.Posts().FindPosts(ctx, domain.NewPostFilter(v, []domain.PostCategory{domain.CategoryCrypto}, domain.RoleFilterEveryone))
		require.NoError(t, err)
		require.Equal(t, []string{visible.ID}, ids(got))
	})

	t.Run("professional", func(t *testing.T) {
		got, err := s.Posts().FindPosts(ctx, domain.NewPostFilter(v, nil, domain.RoleFilterProfessional))
		require.NoError(t, err)
		require.Equal(t, []string{visible.ID}, ids(got))
	})

	t.Run("following includes own posts", func(t *testing.T) {
		got, err := s.Posts().FindPosts(ctx, domain.NewPostFilter(v, nil, domain.RoleFilterFollowing))
		require.NoError(t, err)
		require.Equal(t, []string{own.ID, visible.ID}, ids(got))
	})

	t.Run("sql agrees with Matches", func(t *testing.T) {
		proView, err := s.Users().GetUserByID(ctx, pro.ID)
		require.NoError(t, err)

		roleFilters := []domain.PostRoleFilter{
			domain.RoleFilterEveryone,
			domain.RoleFilterProfessional,
			domain.RoleFilterFollowing,
			domain.RoleFilterProfessionalFollowing,
		}
		categorySets := [][]domain.PostCategory{nil, {domain.CategoryNews}, {domain.CategoryCrypto, domain.CategoryIdeas}}

		for _, who := range []domain.User{v, proView} {
			for _, rf := range roleFilters {
				for _, cats := range categorySets {
					f := domain.NewPostFilter(who, cats, rf)

					var want []string
					for _, p := range seeded {
						if f.Matches(p, roles[p.UserID]) {
							want = append(want, p.ID)
						}
					}

					got, err := s.Posts().FindPosts(ctx, f)
					require.NoError(t, err)
					require.ElementsMatch(t, want, ids(got), "viewer=%s filter=%s categories=%v", who.Email, rf, cats)
				}
			}
		}
	})
}

func TestInvitesLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	user := seedUser(t, s, "inviter@example.com", domain.RoleUser, domain.AccreditationEveryone)

	active := domain.Invite{
		ID: idx.New().String(), Email: "new@example.com",
		TokenHash: cryptox.FingerprintToken("code-1"), CreatedBy: user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	expired := domain.Invite{
		ID: idx.New().String(), Email: "late@example.com",
		TokenHash: cryptox.FingerprintToken("code-2"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, s.Invites().CreateInvite(ctx, active))
	require.NoError(t, s.Invites().CreateInvite(ctx, expired))

	got, err := s.Invites().GetActiveInviteByTokenHash(ctx, active.TokenHash)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.CreatedBy)

	_, err = s.Invites().GetActiveInviteByTokenHash(ctx, expired.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Invites().MarkInviteUsed(ctx, active.ID, user.ID))
	require.ErrorIs(t, s.Invites().MarkInviteUsed(ctx, active.ID, user.ID), store.ErrNotFound)
	_, err = s.Invites().GetActiveInviteByTokenHash(ctx, active.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Invites().DeleteExpiredInvites(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	u := seedUser(t, s, "tx@example.com", domain.RoleUser, domain.AccreditationNone)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().SetFinancialStatus(ctx, u.ID, domain.InvestorIndividual,
			[]domain.FinancialStatus{domain.StatusTier1}, domain.AccreditationQualifiedPurchaser))
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AccreditationNone, got.Accreditation)
	require.Empty(t, got.FinancialStatus)
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	a := seedUser(t, s, "n1@example.com", domain.RoleUser, domain.AccreditationEveryone)
	b := seedUser(t, s, "n2@example.com", domain.RoleUser, domain.AccreditationEveryone)

	old := domain.Notification{
		ID: idx.NewAt(time.Now().Add(-48 * time.Hour)).String(), UserID: a.ID,
		Type: domain.NotificationFollowed, SourceUserID: b.ID, CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := domain.Notification{ID: idx.New().String(), UserID: a.ID, Type: domain.NotificationFollowed, SourceUserID: b.ID}
	require.NoError(t, s.Notifications().CreateNotification(ctx, old))
	require.NoError(t, s.Notifications().CreateNotification(ctx, fresh))

	list, err := s.Notifications().ListNotifications(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, fresh.ID, list[0].ID)
	require.True(t, list[0].IsNew)

	require.NoError(t, s.Notifications().MarkAllRead(ctx, a.ID))
	list, err = s.Notifications().ListNotifications(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, list[0].IsNew)

	n, err := s.Notifications().DeleteNotificationsBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
