package resolver

import (
	"strings"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/pkg/validatex"
)

func init() {
	validatex.RegisterEnum("post_category", domain.PostCategoryValues()...)
	validatex.RegisterEnum("role_filter", domain.PostRoleFilters()...)
	validatex.RegisterEnum("asset_class", domain.AssetClasses()...)
	validatex.RegisterEnum("media_type", domain.MediaTypes()...)
	validatex.RegisterEnum("audience", strs(domain.Audiences())...)
	validatex.RegisterEnum("accreditation", strs(domain.Accreditations())...)
	validatex.RegisterEnum("investor_class", strs(options(domain.InvestorClassOptions()))...)
	validatex.RegisterEnum("financial_status", strs(domain.FinancialStatuses())...)
}

func strs[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func options(in []domain.Option) []string {
	out := make([]string, len(in))
	for i, o := range in {
		out[i] = o.Value
	}
	return out
}

func trim(s *string) { *s = strings.TrimSpace(*s) }

type codeArgs struct {
	Code string `json:"code" validate:"required"`
}

func (a *codeArgs) Cast() { trim(&a.Code) }

type loginArgs struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *loginArgs) Cast() { a.Email = strings.ToLower(strings.TrimSpace(a.Email)) }

type userInput struct {
	InviteCode string `json:"inviteCode" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
}

type registerArgs struct {
	User userInput `json:"user" validate:"required"`
}

func (a *registerArgs) Cast() {
	trim(&a.User.InviteCode)
	a.User.Email = strings.ToLower(strings.TrimSpace(a.User.Email))
	trim(&a.User.FirstName)
	trim(&a.User.LastName)
}

type emailArgs struct {
	Email string `json:"email" validate:"required,email"`
}

func (a *emailArgs) Cast() { a.Email = strings.ToLower(strings.TrimSpace(a.Email)) }

type postIDArgs struct {
	PostID string `json:"postId" validate:"required,ulid"`
}

type userIDArgs struct {
	UserID string `json:"userId" validate:"required,ulid"`
}

type fundIDArgs struct {
	FundID string `json:"fundId" validate:"required,ulid"`
}

type companyIDArgs struct {
	CompanyID string `json:"companyId" validate:"required,ulid"`
}

type featuredArgs struct {
	Featured bool `json:"featured"`
}

type searchArgs struct {
	Search string `json:"search" validate:"max=200"`
}

func (a *searchArgs) Cast() { trim(&a.Search) }

type postsArgs struct {
	Categories []string `json:"categories" validate:"omitempty,dive,required,post_category"`
	RoleFilter string   `json:"roleFilter" validate:"role_filter"`
}

func (a *postsArgs) Cast() {
	if a.RoleFilter == "" {
		a.RoleFilter = string(domain.RoleFilterEveryone)
	}
}

type classArgs struct {
	InvestorClass string `json:"investorClass" validate:"required,investor_class"`
}

type financialStatusArgs struct {
	InvestorClass   string   `json:"investorClass" validate:"required,investor_class"`
	FinancialStatus []string `json:"financialStatus" validate:"dive,required,financial_status"`
}

type profileInput struct {
	FirstName  string   `json:"firstName" validate:"required,max=100"`
	LastName   string   `json:"lastName" validate:"required,max=100"`
	Avatar     string   `json:"avatar" validate:"max=500"`
	Background string   `json:"background" validate:"max=500"`
	Position   string   `json:"position" validate:"max=200"`
	Tagline    string   `json:"tagline" validate:"max=200"`
	Overview   string   `json:"overview" validate:"max=5000"`
	Website    string   `json:"website" validate:"omitempty,url"`
	CompanyIDs []string `json:"companyIds" validate:"omitempty,dive,ulid"`
}

type profileArgs struct {
	Profile profileInput `json:"profile" validate:"required"`
}

func (a *profileArgs) Cast() {
	for _, s := range []*string{
		&a.Profile.FirstName, &a.Profile.LastName, &a.Profile.Position,
		&a.Profile.Tagline, &a.Profile.Overview, &a.Profile.Website,
	} {
		trim(s)
	}
}

type postInput struct {
	Body       string   `json:"body" validate:"required,max=10000"`
	CompanyID  string   `json:"companyId" validate:"omitempty,ulid"`
	Media      string   `json:"media" validate:"max=300"`
	Audience   string   `json:"audience" validate:"audience"`
	Categories []string `json:"categories" validate:"omitempty,dive,required,post_category"`
	MentionIDs []string `json:"mentionIds" validate:"omitempty,dive,ulid"`
}

type createPostArgs struct {
	Post postInput `json:"post" validate:"required"`
}

func (a *createPostArgs) Cast() {
	trim(&a.Post.Body)
	trim(&a.Post.Media)
	if a.Post.Audience == "" {
		a.Post.Audience = string(domain.AudienceEveryone)
	}
}

type fundInput struct {
	Name       string   `json:"name" validate:"required,max=200"`
	CompanyID  string   `json:"companyId" validate:"required,ulid"`
	Level      string   `json:"level" validate:"required,accreditation"`
	Class      string   `json:"class" validate:"omitempty,asset_class"`
	Overview   string   `json:"overview" validate:"max=10000"`
	Highlights []string `json:"highlights" validate:"omitempty,dive,required"`
	Tags       []string `json:"tags" validate:"omitempty,dive,required"`
}

type createFundArgs struct {
	Fund fundInput `json:"fund" validate:"required"`
}

func (a *createFundArgs) Cast() { trim(&a.Fund.Name) }

type companyInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	Avatar     string `json:"avatar" validate:"max=500"`
	Background string `json:"background" validate:"max=500"`
	Website    string `json:"website" validate:"omitempty,url"`
	Tagline    string `json:"tagline" validate:"max=200"`
	Overview   string `json:"overview" validate:"max=10000"`
}

type createCompanyArgs struct {
	Company companyInput `json:"company" validate:"required"`
}

func (a *createCompanyArgs) Cast() {
	trim(&a.Company.Name)
	trim(&a.Company.Website)
}

type uploadLinkArgs struct {
	LocalFilename string `json:"localFilename" validate:"required,max=300"`
	Type          string `json:"type" validate:"required,media_type"`
	ID            string `json:"id" validate:"required,ulid"`
}
