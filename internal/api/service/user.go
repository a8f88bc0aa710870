package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/mq"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// MentionLimit caps mention suggestions.
const MentionLimit = 20

type UserService struct {
	Store     store.Store
	Publisher mq.Publisher
}

// ProfileUpdate holds the editable profile fields. All of them are written.
type ProfileUpdate struct {
	FirstName  string
	LastName   string
	Avatar     string
	Background string
	Position   string
	Tagline    string
	Overview   string
	Website    string
	CompanyIDs []string
}

// FundManagers is the manager directory together with the funds the viewer
// may see.
type FundManagers struct {
	Managers []domain.User
	Funds    []domain.Fund
}

// UserFollowedEvent is published when a new follow edge is created.
type UserFollowedEvent struct {
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`
}

// Viewer loads the registered user a token subject names.
func (s *UserService) Viewer(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Profile returns a member or an invitee.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.UserRef, error) {
	ref, err := s.Store.Users().GetUserRef(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserRef{}, ErrUserNotFound
		}
		return domain.UserRef{}, err
	}
	return ref, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, viewer domain.User, p ProfileUpdate) (domain.User, error) {
	log := slogx.FromContext(ctx)

	for _, id := range p.CompanyIDs {
		if _, err := s.Store.Companies().GetCompanyByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.User{}, ErrCompanyNotFound
			}
			return domain.User{}, err
		}
	}

	u := viewer
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Avatar = p.Avatar
	u.Background = p.Background
	u.Position = p.Position
	u.Tagline = p.Tagline
	u.Overview = p.Overview
	u.Website = p.Website
	u.CompanyIDs = slices.Compact(slices.Clone(p.CompanyIDs))

	if err := s.Store.Users().UpdateProfile(ctx, u); err != nil {
		log.Error("failed to update profile", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Debug("profile updated", slog.String("user_id", u.ID))
	return s.Viewer(ctx, u.ID)
}

// SaveFinancialStatus stores the questionnaire and the accreditation it
// implies in one transaction.
func (s *UserService) SaveFinancialStatus(
	ctx context.Context,
	viewer domain.User,
	class domain.InvestorClass,
	answers []domain.FinancialStatus,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if !class.Valid() {
		return domain.User{}, ErrInvalidClass
	}
	for _, a := range answers {
		if !domain.StatusAllowed(class, a) {
			return domain.User{}, ErrStatusNotAllowed
		}
	}

	answers = slices.Compact(slices.Sorted(slices.Values(answers)))
	level := domain.DeriveAccreditation(class, answers)

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetFinancialStatus(ctx, viewer.ID, class, answers, level); err != nil {
			return err
		}
		u, err := tx.Users().GetUserByID(ctx, viewer.ID)
		updated = u
		return err
	})
	if err != nil {
		log.Error("failed to save financial status", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("accreditation updated",
		slog.String("user_id", viewer.ID),
		slog.String("investor_class", string(class)),
		slog.String("from", string(viewer.Accreditation)),
		slog.String("to", string(level)),
	)
	return updated, nil
}

// Follow makes viewer follow targetID. A new edge notifies the target in
// the same transaction; repeating a follow changes nothing.
func (s *UserService) Follow(ctx context.Context, viewer domain.User, targetID string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if targetID == viewer.ID {
		return domain.User{}, ErrFollowSelf
	}
	if _, err := s.Viewer(ctx, targetID); err != nil {
		return domain.User{}, err
	}

	var created bool
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		created, err = tx.Users().Follow(ctx, viewer.ID, targetID)
		if err != nil || !created {
			return err
		}
		return tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:           idx.New().String(),
			UserID:       targetID,
			Type:         domain.NotificationFollowed,
			SourceUserID: viewer.ID,
			IsNew:        true,
		})
	})
	if err != nil {
		log.Error("failed to follow user", slog.String("target_id", targetID), slog.Any("error", err))
		return domain.User{}, err
	}

	if created {
		if err := s.Publisher.Publish(ctx, mq.UserFollowed, UserFollowedEvent{FollowerID: viewer.ID, FolloweeID: targetID}); err != nil {
			log.Warn("failed to publish follow", slog.Any("error", err))
		}
	}
	return s.Viewer(ctx, viewer.ID)
}

func (s *UserService) Unfollow(ctx context.Context, viewer domain.User, targetID string) (domain.User, error) {
	if targetID == viewer.ID {
		return domain.User{}, ErrFollowSelf
	}
	if _, err := s.Viewer(ctx, targetID); err != nil {
		return domain.User{}, err
	}
	if err := s.Store.Users().Unfollow(ctx, viewer.ID, targetID); err != nil {
		slogx.FromContext(ctx).Error("failed to unfollow user", slog.Any("error", err))
		return domain.User{}, err
	}
	return s.Viewer(ctx, viewer.ID)
}

func (s *UserService) HidePost(ctx context.Context, viewer domain.User, postID string) (domain.User, error) {
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrPostNotFound
		}
		return domain.User{}, err
	}
	if err := s.Store.Users().HidePost(ctx, viewer.ID, postID); err != nil {
		return domain.User{}, err
	}
	return s.Viewer(ctx, viewer.ID)
}

func (s *UserService) HideUser(ctx context.Context, viewer domain.User, userID string) (domain.User, error) {
	if userID == viewer.ID {
		return domain.User{}, ErrHideSelf
	}
	if _, err := s.Profile(ctx, userID); err != nil {
		return domain.User{}, err
	}
	if err := s.Store.Users().HideUser(ctx, viewer.ID, userID); err != nil {
		return domain.User{}, err
	}
	return s.Viewer(ctx, viewer.ID)
}

func (s *UserService) Users(ctx context.Context) ([]domain.UserRef, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) Professionals(ctx context.Context, featuredOnly bool) ([]domain.User, error) {
	return s.Store.Users().ListProfessionals(ctx, featuredOnly)
}

// MentionUsers suggests registered members other than the viewer whose
// name or email matches search.
func (s *UserService) MentionUsers(ctx context.Context, viewer domain.User, search string) ([]domain.User, error) {
	refs, err := s.Store.Users().SearchUsers(ctx, strings.TrimSpace(search), MentionLimit+1)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(refs))
	for _, ref := range refs {
		if u, ok := ref.Full(); ok && u.ID != viewer.ID && len(out) < MentionLimit {
			out = append(out, u)
		}
	}
	return out, nil
}

// FundManagers lists managers with their funds, keeping only the funds the
// viewer's accreditation reaches. Each manager's ManagedFundsIDs is pruned
// to match.
func (s *UserService) FundManagers(ctx context.Context, viewer domain.User, featuredOnly bool) (FundManagers, error) {
	managers, err := s.Store.Users().ListFundManagers(ctx, featuredOnly)
	if err != nil {
		return FundManagers{}, err
	}

	ids := make([]string, len(managers))
	for i, m := range managers {
		ids[i] = m.ID
	}
	funds, err := s.Store.Funds().ListFundsByManagers(ctx, ids)
	if err != nil {
		return FundManagers{}, err
	}
	funds = domain.AccessibleFunds(funds, viewer.Accreditation)

	visible := make(map[string]bool, len(funds))
	for _, f := range funds {
		visible[f.ID] = true
	}
	for i := range managers {
		managers[i].ManagedFundsIDs = slices.DeleteFunc(slices.Clone(managers[i].ManagedFundsIDs), func(id string) bool {
			return !visible[id]
		})
	}

	return FundManagers{Managers: managers, Funds: funds}, nil
}

// SetFeatured and SetRole are operator actions addressed by email.
func (s *UserService) SetFeatured(ctx context.Context, email string, featured bool) error {
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Store.Users().SetFeatured(ctx, u.ID, featured)
}

func (s *UserService) SetRole(ctx context.Context, email string, role domain.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("role changed",
		slog.String("user_id", u.ID),
		slog.String("from", string(u.Role)),
		slog.String("to", string(role)),
	)
	return s.Store.Users().SetRole(ctx, u.ID, role)
}

func (s *UserService) byEmail(ctx context.Context, email string) (domain.User, error) {
	ref, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	u, ok := ref.Full()
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

