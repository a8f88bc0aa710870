package apisdk

import "context"

// userMutation runs a mutation that takes one argument and returns the
// updated account.
func (s *Session) userMutation(ctx context.Context, query string, vars map[string]any, field string) (*User, error) {
	var out map[string]*User
	if err := s.Do(ctx, query, vars, &out); err != nil {
		return nil, err
	}
	return out[field], nil
}

// Account returns the signed-in member.
func (s *Session) Account(ctx context.Context) (*User, error) {
	var out struct {
		Account *User `json:"account"`
	}
	if err := s.Do(ctx, `{ account { `+userFields+` } }`, nil, &out); err != nil {
		return nil, err
	}
	return out.Account, nil
}

func (s *Session) UpdateProfile(ctx context.Context, profile ProfileInput) (*User, error) {
	return s.userMutation(ctx, `mutation ($profile: ProfileInput!) { updateProfile(profile: $profile) { `+userFields+` } }`,
		map[string]any{"profile": profile}, "updateProfile")
}

// SaveFinancialStatus stores the onboarding answers and returns the member
// with the accreditation derived from them.
func (s *Session) SaveFinancialStatus(ctx context.Context, investorClass string, answers []string) (*User, error) {
	if answers == nil {
		answers = []string{}
	}
	return s.userMutation(ctx, `mutation ($class: InvestorClass!, $answers: [FinancialStatus!]!) {
		saveFinancialStatus(investorClass: $class, financialStatus: $answers) { `+userFields+` }
	}`, map[string]any{"class": investorClass, "answers": answers}, "saveFinancialStatus")
}

func (s *Session) Follow(ctx context.Context, userID string) (*User, error) {
	return s.userMutation(ctx, `mutation ($id: ID!) { followUser(userId: $id) { `+userFields+` } }`,
		map[string]any{"id": userID}, "followUser")
}

func (s *Session) Unfollow(ctx context.Context, userID string) (*User, error) {
	return s.userMutation(ctx, `mutation ($id: ID!) { unfollowUser(userId: $id) { `+userFields+` } }`,
		map[string]any{"id": userID}, "unfollowUser")
}

// HidePost removes a post from the member's feed.
func (s *Session) HidePost(ctx context.Context, postID string) (*User, error) {
	return s.userMutation(ctx, `mutation ($id: ID!) { hidePost(postId: $id) { `+userFields+` } }`,
		map[string]any{"id": postID}, "hidePost")
}

// HideUser removes every post by userID from the member's feed.
func (s *Session) HideUser(ctx context.Context, userID string) (*User, error) {
	return s.userMutation(ctx, `mutation ($id: ID!) { hideUser(userId: $id) { `+userFields+` } }`,
		map[string]any{"id": userID}, "hideUser")
}

func (s *Session) UserProfile(ctx context.Context, userID string) (*Profile, error) {
	var out struct {
		UserProfile *Profile `json:"userProfile"`
	}
	err := s.Do(ctx, `query ($id: ID!) { userProfile(userId: $id) { `+profileFields+` } }`,
		map[string]any{"id": userID}, &out)
	if err != nil {
		return nil, err
	}
	return out.UserProfile, nil
}

// Users lists every member and invitee.
func (s *Session) Users(ctx context.Context) ([]Profile, error) {
	var out struct {
		Users []Profile `json:"users"`
	}
	err := s.Do(ctx, `{ users { `+profileFields+` } }`, nil, &out)
	return out.Users, err
}

func (s *Session) Professionals(ctx context.Context, featuredOnly bool) ([]Profile, error) {
	var out struct {
		Professionals []Profile `json:"professionals"`
	}
	err := s.Do(ctx, `query ($featured: Boolean) { professionals(featured: $featured) { `+profileFields+` } }`,
		map[string]any{"featured": featuredOnly}, &out)
	return out.Professionals, err
}

// MentionUsers suggests members to mention whose name matches search.
func (s *Session) MentionUsers(ctx context.Context, search string) ([]Profile, error) {
	var out struct {
		MentionUsers []Profile `json:"mentionUsers"`
	}
	err := s.Do(ctx, `query ($search: String) { mentionUsers(search: $search) { `+profileFields+` } }`,
		map[string]any{"search": search}, &out)
	return out.MentionUsers, err
}
