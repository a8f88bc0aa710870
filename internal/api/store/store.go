package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a transaction-scoped Store can hand out the same repos bound to
// the transaction.
type Store interface {
	Users() Users
	Invites() Invites
	Funds() Funds
	Companies() Companies
	Posts() Posts
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserRef returns whatever row holds id, registered or not.
	GetUserRef(ctx context.Context, id string) (domain.UserRef, error)

	// GetUserByID returns a registered user. Stubs read as ErrNotFound.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (domain.UserRef, error)

	// GetUsersByIDs returns the rows found for ids, in no particular order.
	GetUsersByIDs(ctx context.Context, ids []string) ([]domain.UserRef, error)

	// CreateUser inserts a registered user.
	CreateUser(ctx context.Context, u domain.User) error

	// CreateStub inserts a pre-registered invitee. ErrAlreadyExists when the
	// email is taken.
	CreateStub(ctx context.Context, s domain.UserStub) error

	// PromoteStub turns the stub with u.ID into a registered user.
	PromoteStub(ctx context.Context, u domain.User) error

	// UpdateProfile writes the editable profile fields and bumps updated_at.
	UpdateProfile(ctx context.Context, u domain.User) error

	// SetFinancialStatus stores the questionnaire answers together with the
	// accreditation derived from them.
	SetFinancialStatus(ctx context.Context, userID string, class domain.InvestorClass, answers []domain.FinancialStatus, level domain.Accreditation) error

	SetFeatured(ctx context.Context, userID string, featured bool) error
	SetRole(ctx context.Context, userID string, role domain.Role) error

	// Follow is idempotent. Unfollow of a missing edge is not an error.
	Follow(ctx context.Context, followerID, followeeID string) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followeeID string) error

	HidePost(ctx context.Context, userID, postID string) error
	HideUser(ctx context.Context, userID, hiddenUserID string) error

	// ListUsers returns every user row, newest first.
	ListUsers(ctx context.Context) ([]domain.UserRef, error)

	// ListProfessionals returns registered professionals, optionally only
	// featured ones.
	ListProfessionals(ctx context.Context, featuredOnly bool) ([]domain.User, error)

	// ListFundManagers returns registered users managing at least one fund.
	ListFundManagers(ctx context.Context, featuredOnly bool) ([]domain.User, error)

	// SearchUsers matches keyword against names and email.
	SearchUsers(ctx context.Context, keyword string, limit int) ([]domain.UserRef, error)
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the fingerprint of the code).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetActiveInviteByTokenHash returns a not-used, not-expired invite by hash.
	GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// MarkInviteUsed sets used=1 and used_by. ErrNotFound when the invite was
	// already consumed.
	MarkInviteUsed(ctx context.Context, inviteID string, usedByUserID string) error

	// DeleteExpiredInvites removes unused invites past their expiry.
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error)
}

type Funds interface {
	CreateFund(ctx context.Context, f domain.Fund) error
	GetFundByID(ctx context.Context, id string) (domain.Fund, error)

	// ListFundsByLevels returns funds whose level is one of levels, newest first.
	ListFundsByLevels(ctx context.Context, levels []domain.Accreditation) ([]domain.Fund, error)

	// ListFundsByManagers returns the funds managed by any of managerIDs.
	ListFundsByManagers(ctx context.Context, managerIDs []string) ([]domain.Fund, error)

	SearchFunds(ctx context.Context, keyword string, levels []domain.Accreditation, limit int) ([]domain.Fund, error)
}

type Companies interface {
	CreateCompany(ctx context.Context, c domain.Company) error
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// ListFundCompanies returns companies referenced by at least one fund.
	ListFundCompanies(ctx context.Context) ([]domain.Company, error)

	SearchCompanies(ctx context.Context, keyword string, limit int) ([]domain.Company, error)
}

type Posts interface {
	CreatePost(ctx context.Context, p domain.Post) error
	GetPostByID(ctx context.Context, id string) (domain.Post, error)
	DeletePost(ctx context.Context, id string) error

	// SetMedia records where the post media ended up.
	SetMedia(ctx context.Context, postID, url string, ready bool) error

	// FindPosts applies f in SQL and returns matches, newest first.
	FindPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error)

	// SearchPosts matches keyword against the bodies of posts that pass f.
	SearchPosts(ctx context.Context, keyword string, f domain.PostFilter, limit int) ([]domain.Post, error)
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.Notification) error

	// ListNotifications returns a user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkAllRead clears is_new on every notification of userID.
	MarkAllRead(ctx context.Context, userID string) error

	// DeleteNotificationsBefore removes notifications created before cutoff.
	DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
