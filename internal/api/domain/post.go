package domain

import (
	"slices"
	"time"
)

type PostCategory string

const (
	CategoryNews          PostCategory = "NEWS"
	CategoryIdeas         PostCategory = "IDEAS"
	CategoryEducation     PostCategory = "EDUCATION"
	CategoryMarketUpdates PostCategory = "MARKET_UPDATES"
	CategoryTechnology    PostCategory = "TECHNOLOGY"
	CategoryCrypto        PostCategory = "CRYPTO"
	CategoryAlternatives  PostCategory = "ALTERNATIVES"
	CategoryOpportunities PostCategory = "OPPORTUNITIES"
)

var postCategoryLabels = []Option{
	{Value: string(CategoryNews), Title: "News"},
	{Value: string(CategoryIdeas), Title: "Ideas"},
	{Value: string(CategoryEducation), Title: "Education"},
	{Value: string(CategoryMarketUpdates), Title: "Market Updates"},
	{Value: string(CategoryTechnology), Title: "Technology"},
	{Value: string(CategoryCrypto), Title: "Crypto"},
	{Value: string(CategoryAlternatives), Title: "Alternatives"},
	{Value: string(CategoryOpportunities), Title: "Opportunities"},
}

// PostCategories returns the category table in display order.
func PostCategories() []Option { return slices.Clone(postCategoryLabels) }

// PostCategoryValues returns every category value.
func PostCategoryValues() []string {
	out := make([]string, 0, len(postCategoryLabels))
	for _, o := range postCategoryLabels {
		out = append(out, o.Value)
	}
	return out
}

// PostRoleFilter narrows a feed by who wrote the posts.
type PostRoleFilter string

const (
	RoleFilterEveryone              PostRoleFilter = "everyone"
	RoleFilterProfessional          PostRoleFilter = "professional"
	RoleFilterFollowing             PostRoleFilter = "following"
	RoleFilterProfessionalFollowing PostRoleFilter = "professional_following"
)

func PostRoleFilters() []string {
	return []string{
		string(RoleFilterEveryone),
		string(RoleFilterProfessional),
		string(RoleFilterFollowing),
		string(RoleFilterProfessionalFollowing),
	}
}

func (f PostRoleFilter) professionalOnly() bool {
	return f == RoleFilterProfessional || f == RoleFilterProfessionalFollowing
}

func (f PostRoleFilter) followingOnly() bool {
	return f == RoleFilterFollowing || f == RoleFilterProfessionalFollowing
}

type Post struct {
	ID         string
	UserID     string
	CompanyID  string
	Body       string
	MediaURL   string
	MediaReady bool
	Audience   Audience
	Categories []PostCategory
	MentionIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PostFilter is the complete set of constraints for a feed query.
type PostFilter struct {
	Audiences     []Audience
	Categories    []PostCategory
	HiddenPostIDs []string
	HiddenUserIDs []string

	// Authors, when non-nil, restricts posts to these authors.
	Authors []string

	// ProfessionalOnly restricts posts to authors with the professional role.
	ProfessionalOnly bool
}

// NewPostFilter builds the feed filter for viewer. A viewer without an
// accreditation reads as "everyone" here and only here.
func NewPostFilter(viewer User, categories []PostCategory, roleFilter PostRoleFilter) PostFilter {
	f := PostFilter{
		Audiences:        AudiencesVisibleTo(viewer.Accreditation.ForAudience()),
		Categories:       slices.Clone(categories),
		HiddenPostIDs:    slices.Clone(viewer.HiddenPostIDs),
		HiddenUserIDs:    slices.Clone(viewer.HiddenUserIDs),
		ProfessionalOnly: roleFilter.professionalOnly(),
	}
	if roleFilter.followingOnly() {
		f.Authors = append(slices.Clone(viewer.FollowingIDs), viewer.ID)
	}
	return f
}

// Matches applies the filter to a single post whose author has authorRole.
func (f PostFilter) Matches(p Post, authorRole Role) bool {
	if !slices.Contains(f.Audiences, p.Audience.Normalize()) {
		return false
	}
	if slices.Contains(f.HiddenPostIDs, p.ID) || slices.Contains(f.HiddenUserIDs, p.UserID) {
		return false
	}
	if len(f.Categories) > 0 && !slices.ContainsFunc(p.Categories, func(c PostCategory) bool {
		return slices.Contains(f.Categories, c)
	}) {
		return false
	}
	if f.Authors != nil && !slices.Contains(f.Authors, p.UserID) {
		return false
	}
	if f.ProfessionalOnly && authorRole != RoleProfessional {
		return false
	}
	return true
}
