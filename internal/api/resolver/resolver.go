// Package resolver binds the GraphQL schema to the services. Every root
// field is registered here with its access level; secured fields receive
// the caller's user through the context.
package resolver

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/chatx"
	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/gqlx"
	"github.com/prometheusfi/prometheus/pkg/httpx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

//go:embed schema.graphql
var SDL string

type Resolver struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Funds         *service.FundService
	Companies     *service.CompanyService
	Posts         *service.PostService
	Notifications *service.NotificationService
	Search        *service.SearchService
	Media         *service.MediaService
	Chat          chatx.Issuer

	// Strict throttles credential fields per client IP. Nil disables it.
	Strict httpx.Limiter
}

type field struct {
	coordinate string
	access     gqlx.Access
	fn         gqlx.ResolverFunc
}

func (r *Resolver) fields() []field {
	return []field{
		{"Query.verifyInvite", gqlx.Public, r.verifyInvite},
		{"Query.investorClassOptions", gqlx.Public, r.investorClassOptions},
		{"Query.financialStatusOptions", gqlx.Public, r.financialStatusOptions},
		{"Query.postCategories", gqlx.Public, r.postCategories},
		{"Query.account", gqlx.Secured, r.account},
		{"Query.chatToken", gqlx.Secured, r.chatToken},
		{"Query.post", gqlx.Secured, r.post},
		{"Query.posts", gqlx.Secured, r.posts},
		{"Query.funds", gqlx.Secured, r.funds},
		{"Query.fund", gqlx.Secured, r.fund},
		{"Query.fundManagers", gqlx.Secured, r.fundManagers},
		{"Query.fundCompanies", gqlx.Secured, r.fundCompanies},
		{"Query.professionals", gqlx.Secured, r.professionals},
		{"Query.userProfile", gqlx.Secured, r.userProfile},
		{"Query.companyProfile", gqlx.Secured, r.companyProfile},
		{"Query.notifications", gqlx.Secured, r.notifications},
		{"Query.mentionUsers", gqlx.Secured, r.mentionUsers},
		{"Query.globalSearch", gqlx.Secured, r.globalSearch},
		{"Query.users", gqlx.Secured, r.users},

		{"Mutation.login", gqlx.Public, r.login},
		{"Mutation.register", gqlx.Public, r.register},
		{"Mutation.createInvite", gqlx.Secured, r.createInvite},
		{"Mutation.updateProfile", gqlx.Secured, r.updateProfile},
		{"Mutation.saveFinancialStatus", gqlx.Secured, r.saveFinancialStatus},
		{"Mutation.followUser", gqlx.Secured, r.followUser},
		{"Mutation.unfollowUser", gqlx.Secured, r.unfollowUser},
		{"Mutation.hidePost", gqlx.Secured, r.hidePost},
		{"Mutation.hideUser", gqlx.Secured, r.hideUser},
		{"Mutation.createPost", gqlx.Secured, r.createPost},
		{"Mutation.deletePost", gqlx.Secured, r.deletePost},
		{"Mutation.createFund", gqlx.Secured, r.createFund},
		{"Mutation.createCompany", gqlx.Secured, r.createCompany},
		{"Mutation.uploadLink", gqlx.Secured, r.uploadLink},
		{"Mutation.readNotifications", gqlx.Secured, r.readNotifications},
	}
}

// NewSchema registers every root field and refuses to build a schema with
// any field left unbound.
func NewSchema(r *Resolver, opts ...gqlx.Option) (*gqlx.Schema, error) {
	s, err := gqlx.NewSchema("schema.graphql", SDL, r.guard, opts...)
	if err != nil {
		return nil, err
	}
	for _, f := range r.fields() {
		if err := s.Handle(f.coordinate, f.access, f.fn); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	return s, nil
}

type viewerKey struct{}

// guard loads the registered user named by the verified token subject.
func (r *Resolver) guard(ctx context.Context) (context.Context, error) {
	subject, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		return ctx, errx.Unauthenticated()
	}
	u, err := r.Users.Viewer(ctx, subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx, errx.Unauthenticated()
		}
		return ctx, err
	}
	return context.WithValue(ctx, viewerKey{}, u), nil
}

// viewer is only called from secured fields, after guard succeeded.
func viewer(ctx context.Context) domain.User {
	u, _ := ctx.Value(viewerKey{}).(domain.User)
	return u
}

// throttle applies the strict limit to op for the calling address. A
// broken limiter lets the call through.
func (r *Resolver) throttle(ctx context.Context, op string) error {
	ip := httpx.ClientIPFromContext(ctx)
	if r.Strict == nil || ip == "" {
		return nil
	}
	ok, _, err := r.Strict.Allow(ctx, op+":"+ip)
	if err != nil {
		slogx.FromContext(ctx).Error("strict limiter failed, allowing request",
			slog.String("op", op), slog.Any("error", err))
		return nil
	}
	if !ok {
		slogx.FromContext(ctx).Warn("strict limit exceeded", slog.String("op", op), slog.String("ip", ip))
		return errx.TooManyRequests()
	}
	return nil
}

// fail maps service sentinels onto the error taxonomy. Anything else is
// left for the executor to redact.
func fail(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrUserNotFound):
		return errx.NotFound()
	case errors.Is(err, service.ErrInviteNotFound):
		return errx.BadRequest("Invite code is invalid or has expired.")
	case errors.Is(err, service.ErrInviteMismatch):
		return errx.BadRequest("Invite code was issued for a different email.")
	case errors.Is(err, service.ErrEmailTaken):
		return errx.BadRequest("Email is already registered.")
	case errors.Is(err, service.ErrFollowSelf):
		return errx.BadRequest("You cannot follow yourself.")
	case errors.Is(err, service.ErrHideSelf):
		return errx.BadRequest("You cannot hide yourself.")
	case errors.Is(err, service.ErrInvalidClass):
		return errx.InvalidField("investorClass", "investorClass is invalid")
	case errors.Is(err, service.ErrStatusNotAllowed):
		return errx.InvalidField("financialStatus", "financialStatus must match the investor class")
	case errors.Is(err, service.ErrPostNotFound):
		return errx.NotFound("Post")
	case errors.Is(err, service.ErrPostNotVisible):
		return errx.Unprocessable("Not able to get a post.")
	case errors.Is(err, service.ErrAudienceTooHigh):
		return errx.Unprocessable("Not able to post to this audience.")
	case errors.Is(err, service.ErrNotPostAuthor):
		return errx.Unprocessable("Not able to delete a post.")
	case errors.Is(err, service.ErrFundNotFound):
		return errx.NotFound("Fund")
	case errors.Is(err, service.ErrFundNotVisible):
		return errx.Unprocessable("Not able to get a fund.")
	case errors.Is(err, service.ErrNotProfessional):
		return errx.Unprocessable("Not able to create a fund.")
	case errors.Is(err, service.ErrInvalidLevel):
		return errx.InvalidField("fund.level", "level is invalid")
	case errors.Is(err, service.ErrCompanyNotFound):
		return errx.NotFound("Company")
	case errors.Is(err, service.ErrInvalidFilename):
		return errx.InvalidField("localFilename", "localFilename must have an extension")
	case errors.Is(err, chatx.ErrNoSecret):
		return errx.Internal("Missing chat configuration").Wrap(err)
	}
	return err
}
