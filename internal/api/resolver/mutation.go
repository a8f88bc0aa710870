package resolver

import (
	"context"
	"errors"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/validatex"
)

func (r *Resolver) login(ctx context.Context, raw map[string]any) (any, error) {
	if err := r.throttle(ctx, "login"); err != nil {
		return nil, err
	}
	args, err := validatex.Args[loginArgs](raw)
	if err != nil {
		return nil, err
	}
	token, err := r.Auth.Login(ctx, args.Email, args.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return nil, errx.NotFound().WithCode(errx.CodeNotFound)
	case errors.Is(err, service.ErrWrongPassword):
		return nil, errx.InvalidField("password", "Wrong password.")
	case err != nil:
		return nil, fail(err)
	}
	return token, nil
}

func (r *Resolver) register(ctx context.Context, raw map[string]any) (any, error) {
	if err := r.throttle(ctx, "register"); err != nil {
		return nil, err
	}
	args, err := validatex.Args[registerArgs](raw)
	if err != nil {
		return nil, err
	}
	token, _, err := r.Auth.Register(ctx, service.Registration{
		Code:      args.User.InviteCode,
		Email:     args.User.Email,
		Password:  args.User.Password,
		FirstName: args.User.FirstName,
		LastName:  args.User.LastName,
	})
	if err != nil {
		return nil, fail(err)
	}
	return token, nil
}

func (r *Resolver) createInvite(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[emailArgs](raw)
	if err != nil {
		return nil, err
	}
	if _, err := r.Auth.CreateInvite(ctx, viewer(ctx).ID, args.Email); err != nil {
		return nil, fail(err)
	}
	return true, nil
}

func (r *Resolver) updateProfile(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[profileArgs](raw)
	if err != nil {
		return nil, err
	}
	p := args.Profile
	u, err := r.Users.UpdateProfile(ctx, viewer(ctx), service.ProfileUpdate{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Avatar:     p.Avatar,
		Background: p.Background,
		Position:   p.Position,
		Tagline:    p.Tagline,
		Overview:   p.Overview,
		Website:    p.Website,
		CompanyIDs: p.CompanyIDs,
	})
	if err != nil {
		return nil, fail(err)
	}
	return toUser(u), nil
}

func (r *Resolver) saveFinancialStatus(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[financialStatusArgs](raw)
	if err != nil {
		return nil, err
	}
	answers := make([]domain.FinancialStatus, len(args.FinancialStatus))
	for i, s := range args.FinancialStatus {
		answers[i] = domain.FinancialStatus(s)
	}
	u, err := r.Users.SaveFinancialStatus(ctx, viewer(ctx), domain.InvestorClass(args.InvestorClass), answers)
	if err != nil {
		return nil, fail(err)
	}
	return toUser(u), nil
}

func (r *Resolver) followUser(ctx context.Context, raw map[string]any) (any, error) {
	return r.withUserID(ctx, raw, r.Users.Follow)
}

func (r *Resolver) unfollowUser(ctx context.Context, raw map[string]any) (any, error) {
	return r.withUserID(ctx, raw, r.Users.Unfollow)
}

func (r *Resolver) hideUser(ctx context.Context, raw map[string]any) (any, error) {
	return r.withUserID(ctx, raw, r.Users.HideUser)
}

func (r *Resolver) withUserID(
	ctx context.Context,
	raw map[string]any,
	op func(context.Context, domain.User, string) (domain.User, error),
) (any, error) {
	args, err := validatex.Args[userIDArgs](raw)
	if err != nil {
		return nil, err
	}
	u, err := op(ctx, viewer(ctx), args.UserID)
	if err != nil {
		return nil, fail(err)
	}
	return toUser(u), nil
}

func (r *Resolver) hidePost(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[postIDArgs](raw)
	if err != nil {
		return nil, err
	}
	u, err := r.Users.HidePost(ctx, viewer(ctx), args.PostID)
	if err != nil {
		return nil, fail(err)
	}
	return toUser(u), nil
}

func (r *Resolver) createPost(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[createPostArgs](raw)
	if err != nil {
		return nil, err
	}
	in := args.Post
	categories := make([]domain.PostCategory, len(in.Categories))
	for i, c := range in.Categories {
		categories[i] = domain.PostCategory(c)
	}
	p, err := r.Posts.Create(ctx, viewer(ctx), service.NewPost{
		Body:       in.Body,
		CompanyID:  in.CompanyID,
		Media:      in.Media,
		Audience:   domain.Audience(in.Audience),
		Categories: categories,
		MentionIDs: in.MentionIDs,
	})
	if err != nil {
		return nil, fail(err)
	}
	return toPost(p), nil
}

func (r *Resolver) deletePost(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[postIDArgs](raw)
	if err != nil {
		return nil, err
	}
	if err := r.Posts.Delete(ctx, viewer(ctx), args.PostID); err != nil {
		return nil, fail(err)
	}
	return true, nil
}

func (r *Resolver) createFund(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[createFundArgs](raw)
	if err != nil {
		return nil, err
	}
	in := args.Fund
	f, err := r.Funds.Create(ctx, viewer(ctx), service.NewFund{
		Name:       in.Name,
		CompanyID:  in.CompanyID,
		Level:      domain.Accreditation(in.Level),
		AssetClass: domain.AssetClass(in.Class),
		Overview:   in.Overview,
		Highlights: in.Highlights,
		Tags:       in.Tags,
	})
	if err != nil {
		return nil, fail(err)
	}
	return toFund(f), nil
}

func (r *Resolver) createCompany(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[createCompanyArgs](raw)
	if err != nil {
		return nil, err
	}
	in := args.Company
	c, err := r.Companies.Create(ctx, viewer(ctx), service.NewCompany{
		Name:       in.Name,
		Avatar:     in.Avatar,
		Background: in.Background,
		Website:    in.Website,
		Tagline:    in.Tagline,
		Overview:   in.Overview,
	})
	if err != nil {
		return nil, fail(err)
	}
	return toCompany(c), nil
}

func (r *Resolver) uploadLink(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[uploadLinkArgs](raw)
	if err != nil {
		return nil, err
	}
	up, err := r.Media.UploadLink(ctx, args.LocalFilename, domain.MediaType(args.Type), args.ID)
	if err != nil {
		return nil, fail(err)
	}
	return remoteUploadView{RemoteName: up.RemoteName, UploadURL: up.UploadURL}, nil
}

func (r *Resolver) readNotifications(ctx context.Context, _ map[string]any) (any, error) {
	if err := r.Notifications.ReadAll(ctx, viewer(ctx)); err != nil {
		return nil, fail(err)
	}
	return true, nil
}
