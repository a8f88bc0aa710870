package apisdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Prometheus API. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new API client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do runs an arbitrary anonymous operation and decodes its data into out.
func (c *SDKClient) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	return c.graphql(ctx, "", query, vars, out)
}

// NewSessionFromToken wraps an access token obtained earlier.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return newSession(c, accessToken)
}

// VerifyInvite reports whether an invite code can still be redeemed.
func (c *SDKClient) VerifyInvite(ctx context.Context, code string) (bool, error) {
	var out struct {
		VerifyInvite bool `json:"verifyInvite"`
	}
	err := c.Do(ctx, `query ($code: String!) { verifyInvite(code: $code) }`,
		map[string]any{"code": code}, &out)
	return out.VerifyInvite, err
}

// Login signs a member in with email and password.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		Login *string `json:"login"`
	}
	err := c.Do(ctx, `mutation ($email: String!, $password: String!) { login(email: $email, password: $password) }`,
		map[string]any{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	if out.Login == nil {
		return nil, fmt.Errorf("login returned no token")
	}
	return newSession(c, *out.Login), nil
}

// Register redeems an invite and signs the new member in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var out struct {
		Register *string `json:"register"`
	}
	err := c.Do(ctx, `mutation ($user: UserInput!) { register(user: $user) }`,
		map[string]any{"user": req}, &out)
	if err != nil {
		return nil, err
	}
	if out.Register == nil {
		return nil, fmt.Errorf("register returned no token")
	}
	return newSession(c, *out.Register), nil
}

// InvestorClassOptions lists the investor classes shown during onboarding.
func (c *SDKClient) InvestorClassOptions(ctx context.Context) ([]Option, error) {
	var out struct {
		Options []Option `json:"investorClassOptions"`
	}
	err := c.Do(ctx, `{ investorClassOptions { `+optionFields+` } }`, nil, &out)
	return out.Options, err
}

// FinancialStatusOptions lists the answers available to an investor class.
func (c *SDKClient) FinancialStatusOptions(ctx context.Context, investorClass string) (*FinancialStatusOptions, error) {
	var out struct {
		Options FinancialStatusOptions `json:"financialStatusOptions"`
	}
	err := c.Do(ctx, `query ($class: InvestorClass!) {
		financialStatusOptions(investorClass: $class) { base { `+optionFields+` } advanced { `+optionFields+` } }
	}`, map[string]any{"class": investorClass}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Options, nil
}

// PostCategories lists the categories a post can be tagged with.
func (c *SDKClient) PostCategories(ctx context.Context) ([]Option, error) {
	var out struct {
		Options []Option `json:"postCategories"`
	}
	err := c.Do(ctx, `{ postCategories { `+optionFields+` } }`, nil, &out)
	return out.Options, err
}
