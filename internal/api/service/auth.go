package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/pkg/cryptox"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/mq"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// DefaultInviteTTL is how long an invite code can be redeemed.
const DefaultInviteTTL = 7 * 24 * time.Hour

type AuthService struct {
	Store     store.Store
	Tokens    *TokenIssuer
	Publisher mq.Publisher
	InviteTTL time.Duration
}

// Registration is what a new member submits with their invite code.
type Registration struct {
	Code      string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// InviteCreatedEvent is published so the mailer can deliver the code.
type InviteCreatedEvent struct {
	InviteID  string    `json:"inviteId"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	InvitedBy string    `json:"invitedBy,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)

	ref, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login for unknown email")
			return "", ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return "", err
	}

	// Invited but not registered yet.
	user, ok := ref.Full()
	if !ok {
		log.Info("login for unregistered invitee", slog.String("user_id", ref.ID()))
		return "", ErrUserNotFound
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login with wrong password", slog.String("user_id", user.ID))
		return "", ErrWrongPassword
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return token, nil
}

// VerifyInvite reports whether code can still be redeemed.
func (s *AuthService) VerifyInvite(ctx context.Context, code string) (bool, error) {
	_, err := s.activeInvite(ctx, code)
	switch {
	case errors.Is(err, ErrInviteNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (s *AuthService) activeInvite(ctx context.Context, code string) (domain.Invite, error) {
	hash := cryptox.FingerprintToken(cryptox.NormalizeInviteCode(code))
	inv, err := s.Store.Invites().GetActiveInviteByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch invite", slog.Any("error", err))
		return domain.Invite{}, err
	}
	return inv, nil
}

// Register redeems an invite, creating the account at accreditation none,
// and returns an access token for it. The stub created with the invite is
// promoted in place so existing references to it stay valid.
func (s *AuthService) Register(ctx context.Context, r Registration) (string, domain.User, error) {
	log := slogx.FromContext(ctx)
	email := normalizeEmail(r.Email)

	inv, err := s.activeInvite(ctx, r.Code)
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			log.Warn("registration with invalid or expired invite")
		}
		return "", domain.User{}, err
	}
	if inv.Email != email {
		log.Warn("registration email does not match invite",
			slog.String("invite_id", inv.ID),
		)
		return "", domain.User{}, ErrInviteMismatch
	}

	hash, err := cryptox.HashPassword(r.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return "", domain.User{}, err
	}

	user := domain.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Role:          domain.RoleUser,
		Accreditation: domain.AccreditationNone,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if _, registered := existing.Full(); registered {
				return ErrEmailTaken
			}
			user.ID = existing.ID()
			if err := tx.Users().PromoteStub(ctx, user); err != nil {
				return err
			}
		case errors.Is(err, store.ErrNotFound):
			user.ID = idx.New().String()
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrEmailTaken
				}
				return err
			}
		default:
			return err
		}

		if err := tx.Invites().MarkInviteUsed(ctx, inv.ID, user.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) && !errors.Is(err, ErrInviteNotFound) {
			log.Error("failed to register user", slog.Any("error", err))
		}
		return "", domain.User{}, err
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("user registered via invite",
		slog.String("user_id", user.ID),
		slog.String("invite_id", inv.ID),
	)
	return token, user, nil
}

// CreateInvite mints a code for email, records a stub for the invitee and
// publishes the code for delivery. invitedBy is empty for CLI invites.
func (s *AuthService) CreateInvite(ctx context.Context, invitedBy, email string) (string, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	code, err := cryptox.NewInviteCode()
	if err != nil {
		log.Error("failed to generate invite code", slog.Any("error", err))
		return "", err
	}

	ttl := s.InviteTTL
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	inv := domain.Invite{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(code),
		CreatedBy: invitedBy,
		ExpiresAt: time.Now().Add(ttl),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if _, registered := existing.Full(); registered {
				return ErrEmailTaken
			}
			// Re-inviting reuses the stub.
		case errors.Is(err, store.ErrNotFound):
			stub := domain.UserStub{ID: idx.New().String(), Email: email}
			if err := tx.Users().CreateStub(ctx, stub); err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Invites().CreateInvite(ctx, inv)
	})
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			log.Error("failed to create invite", slog.Any("error", err))
		}
		return "", err
	}

	event := InviteCreatedEvent{
		InviteID:  inv.ID,
		Email:     email,
		Code:      code,
		InvitedBy: invitedBy,
		ExpiresAt: inv.ExpiresAt,
	}
	if err := s.Publisher.Publish(ctx, mq.InviteCreated, event); err != nil {
		log.Error("failed to publish invite", slog.String("invite_id", inv.ID), slog.Any("error", err))
		return "", err
	}

	log.Info("invite created",
		slog.String("invite_id", inv.ID),
		slog.String("created_by", invitedBy),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return code, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
