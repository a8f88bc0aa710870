package resolver

import (
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
)

// Views are the wire shapes of schema types. Lists are never nil because
// the schema declares them non-null.

type userView struct {
	Typename        string   `json:"__typename"`
	ID              string   `json:"_id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	FullName        string   `json:"fullName"`
	Avatar          string   `json:"avatar,omitempty"`
	Background      string   `json:"background,omitempty"`
	Position        string   `json:"position,omitempty"`
	Tagline         string   `json:"tagline,omitempty"`
	Overview        string   `json:"overview,omitempty"`
	Website         string   `json:"website,omitempty"`
	Role            string   `json:"role"`
	Featured        bool     `json:"featured"`
	Accreditation   string   `json:"accreditation"`
	InvestorClass   string   `json:"investorClass,omitempty"`
	FinancialStatus []string `json:"financialStatus"`
	CompanyIDs      []string `json:"companyIds"`
	FollowerIDs     []string `json:"followerIds"`
	FollowingIDs    []string `json:"followingIds"`
	HiddenPostIDs   []string `json:"hiddenPostIds"`
	HiddenUserIDs   []string `json:"hiddenUserIds"`
	ManagedFundsIDs []string `json:"managedFundsIds"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type userStubView struct {
	Typename  string `json:"__typename"`
	ID        string `json:"_id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type companyView struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar,omitempty"`
	Background    string `json:"background,omitempty"`
	Website       string `json:"website,omitempty"`
	Tagline       string `json:"tagline,omitempty"`
	Overview      string `json:"overview,omitempty"`
	IsFundCompany bool   `json:"isFundCompany"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type fundView struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	CompanyID  string   `json:"companyId,omitempty"`
	ManagerID  string   `json:"managerId"`
	Level      string   `json:"level"`
	Class      string   `json:"class,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	Highlights []string `json:"highlights"`
	Tags       []string `json:"tags"`
	Featured   bool     `json:"featured"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

type postView struct {
	ID         string   `json:"_id"`
	UserID     string   `json:"userId"`
	CompanyID  string   `json:"companyId,omitempty"`
	Body       string   `json:"body"`
	MediaURL   string   `json:"mediaUrl,omitempty"`
	MediaReady bool     `json:"mediaReady"`
	Audience   string   `json:"audience"`
	Categories []string `json:"categories"`
	MentionIDs []string `json:"mentionIds"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

type notificationView struct {
	ID           string `json:"_id"`
	Type         string `json:"type"`
	SourceUserID string `json:"sourceUserId"`
	PostID       string `json:"postId,omitempty"`
	IsNew        bool   `json:"isNew"`
	CreatedAt    string `json:"createdAt"`
}

type fundManagersView struct {
	Managers []userView `json:"managers"`
	Funds    []fundView `json:"funds"`
}

type searchView struct {
	Users     []userView    `json:"users"`
	Companies []companyView `json:"companies"`
	Posts     []postView    `json:"posts"`
	Funds     []fundView    `json:"funds"`
}

type financialOptionsView struct {
	Base     []domain.Option `json:"base"`
	Advanced []domain.Option `json:"advanced"`
}

type remoteUploadView struct {
	RemoteName string `json:"remoteName"`
	UploadURL  string `json:"uploadUrl"`
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func list[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func mapList[T, V any](in []T, fn func(T) V) []V {
	out := make([]V, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func toUser(u domain.User) userView {
	return userView{
		Typename:        "User",
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Avatar:          u.Avatar,
		Background:      u.Background,
		Position:        u.Position,
		Tagline:         u.Tagline,
		Overview:        u.Overview,
		Website:         u.Website,
		Role:            string(u.Role),
		Featured:        u.Featured,
		Accreditation:   string(u.Accreditation),
		InvestorClass:   string(u.InvestorClass),
		FinancialStatus: strs(u.FinancialStatus),
		CompanyIDs:      list(u.CompanyIDs),
		FollowerIDs:     list(u.FollowerIDs),
		FollowingIDs:    list(u.FollowingIDs),
		HiddenPostIDs:   list(u.HiddenPostIDs),
		HiddenUserIDs:   list(u.HiddenUserIDs),
		ManagedFundsIDs: list(u.ManagedFundsIDs),
		CreatedAt:       timestamp(u.CreatedAt),
		UpdatedAt:       timestamp(u.UpdatedAt),
	}
}

// toProfile renders the UserProfile union. The variant comes from the
// ref's kind, never from which fields are set.
func toProfile(ref domain.UserRef) any {
	if u, ok := ref.Full(); ok {
		return toUser(u)
	}
	s, _ := ref.Stub()
	return userStubView{
		Typename:  "UserStub",
		ID:        s.ID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		CreatedAt: timestamp(s.CreatedAt),
	}
}

func toCompany(c domain.Company) companyView {
	return companyView{
		ID:            c.ID,
		Name:          c.Name,
		Avatar:        c.Avatar,
		Background:    c.Background,
		Website:       c.Website,
		Tagline:       c.Tagline,
		Overview:      c.Overview,
		IsFundCompany: c.IsFundCompany,
		CreatedAt:     timestamp(c.CreatedAt),
		UpdatedAt:     timestamp(c.UpdatedAt),
	}
}

func toFund(f domain.Fund) fundView {
	return fundView{
		ID:         f.ID,
		Name:       f.Name,
		CompanyID:  f.CompanyID,
		ManagerID:  f.ManagerID,
		Level:      string(f.Level),
		Class:      string(f.AssetClass),
		Overview:   f.Overview,
		Highlights: list(f.Highlights),
		Tags:       list(f.Tags),
		Featured:   f.Featured,
		CreatedAt:  timestamp(f.CreatedAt),
		UpdatedAt:  timestamp(f.UpdatedAt),
	}
}

func toPost(p domain.Post) postView {
	return postView{
		ID:         p.ID,
		UserID:     p.UserID,
		CompanyID:  p.CompanyID,
		Body:       p.Body,
		MediaURL:   p.MediaURL,
		MediaReady: p.MediaReady,
		Audience:   string(p.Audience.Normalize()),
		Categories: strs(p.Categories),
		MentionIDs: list(p.MentionIDs),
		CreatedAt:  timestamp(p.CreatedAt),
		UpdatedAt:  timestamp(p.UpdatedAt),
	}
}

func toNotification(n domain.Notification) notificationView {
	return notificationView{
		ID:           n.ID,
		Type:         string(n.Type),
		SourceUserID: n.SourceUserID,
		PostID:       n.PostID,
		IsNew:        n.IsNew,
		CreatedAt:    timestamp(n.CreatedAt),
	}
}

func toFundManagers(m service.FundManagers) fundManagersView {
	return fundManagersView{
		Managers: mapList(m.Managers, toUser),
		Funds:    mapList(m.Funds, toFund),
	}
}

func toSearch(r service.SearchResult) searchView {
	return searchView{
		Users:     mapList(r.Users, toUser),
		Companies: mapList(r.Companies, toCompany),
		Posts:     mapList(r.Posts, toPost),
		Funds:     mapList(r.Funds, toFund),
	}
}

