package apisdk

import (
	"time"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Only readyz sets Checks.
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the service uptime as a duration string (e.g. "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the status of each dependency readyz looks at.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse holds the public keys that verify access tokens.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Enums
// ============================================================================

// Audience values for posts.
const (
	AudienceEveryone           = "EVERYONE"
	AudienceAccredited         = "ACCREDITED"
	AudienceQualifiedPurchaser = "QUALIFIED_PURCHASER"
	AudienceQualifiedClient    = "QUALIFIED_CLIENT"
)

// Feed role filters.
const (
	RoleFilterEveryone              = "everyone"
	RoleFilterProfessional          = "professional"
	RoleFilterFollowing             = "following"
	RoleFilterProfessionalFollowing = "professional_following"
)

// Media types accepted by UploadLink.
const (
	MediaAvatar     = "avatar"
	MediaPost       = "post"
	MediaBackground = "background"
	MediaFund       = "fund"
)

// ============================================================================
// Resources
// ============================================================================

type User struct {
	ID              string    `json:"_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Avatar          *string   `json:"avatar"`
	Background      *string   `json:"background"`
	Position        *string   `json:"position"`
	Tagline         *string   `json:"tagline"`
	Overview        *string   `json:"overview"`
	Website         *string   `json:"website"`
	Role            string    `json:"role"`
	Featured        bool      `json:"featured"`
	Accreditation   string    `json:"accreditation"`
	InvestorClass   *string   `json:"investorClass"`
	FinancialStatus []string  `json:"financialStatus"`
	CompanyIDs      []string  `json:"companyIds"`
	FollowerIDs     []string  `json:"followerIds"`
	FollowingIDs    []string  `json:"followingIds"`
	HiddenPostIDs   []string  `json:"hiddenPostIds"`
	HiddenUserIDs   []string  `json:"hiddenUserIds"`
	ManagedFundsIDs []string  `json:"managedFundsIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Profile is a member or an invitee who has not registered yet. Stubs only
// carry an id, an email and the creation time.
type Profile struct {
	Typename string `json:"__typename"`
	User
}

func (p Profile) IsStub() bool { return p.Typename == "UserStub" }

type Company struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Avatar        *string   `json:"avatar"`
	Background    *string   `json:"background"`
	Website       *string   `json:"website"`
	Tagline       *string   `json:"tagline"`
	Overview      *string   `json:"overview"`
	IsFundCompany bool      `json:"isFundCompany"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Fund struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	CompanyID  *string   `json:"companyId"`
	ManagerID  string    `json:"managerId"`
	Level      string    `json:"level"`
	Class      *string   `json:"class"`
	Overview   *string   `json:"overview"`
	Highlights []string  `json:"highlights"`
	Tags       []string  `json:"tags"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Post struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userId"`
	CompanyID  *string   `json:"companyId"`
	Body       string    `json:"body"`
	MediaURL   *string   `json:"mediaUrl"`
	MediaReady bool      `json:"mediaReady"`
	Audience   string    `json:"audience"`
	Categories []string  `json:"categories"`
	MentionIDs []string  `json:"mentionIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Notification struct {
	ID           string    `json:"_id"`
	Type         string    `json:"type"`
	SourceUserID string    `json:"sourceUserId"`
	PostID       *string   `json:"postId"`
	IsNew        bool      `json:"isNew"`
	CreatedAt    time.Time `json:"createdAt"`
}

type FundManagers struct {
	Managers []User `json:"managers"`
	Funds    []Fund `json:"funds"`
}

type SearchResult struct {
	Users     []User    `json:"users"`
	Companies []Company `json:"companies"`
	Posts     []Post    `json:"posts"`
	Funds     []Fund    `json:"funds"`
}

type Option struct {
	Value       string  `json:"value"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type FinancialStatusOptions struct {
	Base     []Option `json:"base"`
	Advanced []Option `json:"advanced"`
}

type RemoteUpload struct {
	RemoteName string `json:"remoteName"`
	UploadURL  string `json:"uploadUrl"`
}

// ============================================================================
// Inputs
// ============================================================================

type RegisterRequest struct {
	InviteCode string `json:"inviteCode"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

type ProfileInput struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Avatar     *string  `json:"avatar,omitempty"`
	Background *string  `json:"background,omitempty"`
	Position   *string  `json:"position,omitempty"`
	Tagline    *string  `json:"tagline,omitempty"`
	Overview   *string  `json:"overview,omitempty"`
	Website    *string  `json:"website,omitempty"`
	CompanyIDs []string `json:"companyIds,omitempty"`
}

type PostInput struct {
	Body       string   `json:"body"`
	CompanyID  string   `json:"companyId,omitempty"`
	Media      string   `json:"media,omitempty"`
	Audience   string   `json:"audience,omitempty"`
	Categories []string `json:"categories,omitempty"`
	MentionIDs []string `json:"mentionIds,omitempty"`
}

type FundInput struct {
	Name       string   `json:"name"`
	CompanyID  string   `json:"companyId"`
	Level      string   `json:"level"`
	Class      string   `json:"class,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type CompanyInput struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	Background string `json:"background,omitempty"`
	Website    string `json:"website,omitempty"`
	Tagline    string `json:"tagline,omitempty"`
	Overview   string `json:"overview,omitempty"`
}

// ============================================================================
// Selection sets
// ============================================================================

const (
	userFields = `_id email firstName lastName fullName avatar background position tagline overview website
		role featured accreditation investorClass financialStatus companyIds followerIds followingIds
		hiddenPostIds hiddenUserIds managedFundsIds createdAt updatedAt`
	profileFields = `__typename ... on User { ` + userFields + ` } ... on UserStub { _id email createdAt }`
	companyFields = `_id name avatar background website tagline overview isFundCompany createdAt updatedAt`
	fundFields    = `_id name companyId managerId level class overview highlights tags featured createdAt updatedAt`
	postFields    = `_id userId companyId body mediaUrl mediaReady audience categories mentionIds createdAt updatedAt`
	notifFields   = `_id type sourceUserId postId isNew createdAt`
	optionFields  = `value title description`
)
