package apisdk

import (
	"context"
	"sync"
)

// Session sends requests on behalf of a signed-in member.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
}

func newSession(client *SDKClient, accessToken string) *Session {
	return &Session{client: client, accessToken: accessToken}
}

// AccessToken returns the bearer token the session sends.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetAccessToken swaps the token, for example after the member logs in
// again.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// Do runs an arbitrary authenticated operation and decodes its data into out.
func (s *Session) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	return s.client.graphql(ctx, s.AccessToken(), query, vars, out)
}

// ChatToken returns a token for the chat provider.
func (s *Session) ChatToken(ctx context.Context) (string, error) {
	var out struct {
		ChatToken *string `json:"chatToken"`
	}
	if err := s.Do(ctx, `{ chatToken }`, nil, &out); err != nil {
		return "", err
	}
	if out.ChatToken == nil {
		return "", nil
	}
	return *out.ChatToken, nil
}

// CreateInvite invites someone by email. The code is delivered out of band.
func (s *Session) CreateInvite(ctx context.Context, email string) error {
	return s.Do(ctx, `mutation ($email: String!) { createInvite(email: $email) }`,
		map[string]any{"email": email}, nil)
}

// UploadLink returns a presigned URL to upload a file to.
func (s *Session) UploadLink(ctx context.Context, localFilename, mediaType, id string) (*RemoteUpload, error) {
	var out struct {
		UploadLink *RemoteUpload `json:"uploadLink"`
	}
	err := s.Do(ctx, `mutation ($name: String!, $type: MediaType!, $id: ID!) {
		uploadLink(localFilename: $name, type: $type, id: $id) { remoteName uploadUrl }
	}`, map[string]any{"name": localFilename, "type": mediaType, "id": id}, &out)
	if err != nil {
		return nil, err
	}
	return out.UploadLink, nil
}

// GlobalSearch searches members, companies, posts and funds at once.
func (s *Session) GlobalSearch(ctx context.Context, keyword string) (*SearchResult, error) {
	var out struct {
		GlobalSearch *SearchResult `json:"globalSearch"`
	}
	err := s.Do(ctx, `query ($search: String) { globalSearch(search: $search) {
		users { `+userFields+` }
		companies { `+companyFields+` }
		posts { `+postFields+` }
		funds { `+fundFields+` }
	} }`, map[string]any{"search": keyword}, &out)
	if err != nil {
		return nil, err
	}
	return out.GlobalSearch, nil
}

// Notifications lists the member's notifications, newest first.
func (s *Session) Notifications(ctx context.Context) ([]Notification, error) {
	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	err := s.Do(ctx, `{ notifications { `+notifFields+` } }`, nil, &out)
	return out.Notifications, err
}

// ReadNotifications marks every notification as seen.
func (s *Session) ReadNotifications(ctx context.Context) error {
	return s.Do(ctx, `mutation { readNotifications }`, nil, nil)
}
