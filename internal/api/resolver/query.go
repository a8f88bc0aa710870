package resolver

import (
	"context"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/pkg/validatex"
)

func (r *Resolver) verifyInvite(ctx context.Context, raw map[string]any) (any, error) {
	if err := r.throttle(ctx, "verifyInvite"); err != nil {
		return nil, err
	}
	args, err := validatex.Args[codeArgs](raw)
	if err != nil {
		return nil, err
	}
	ok, err := r.Auth.VerifyInvite(ctx, args.Code)
	return ok, fail(err)
}

func (r *Resolver) investorClassOptions(context.Context, map[string]any) (any, error) {
	return domain.InvestorClassOptions(), nil
}

func (r *Resolver) financialStatusOptions(_ context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[classArgs](raw)
	if err != nil {
		return nil, err
	}
	class := domain.InvestorClass(args.InvestorClass)
	return financialOptionsView{
		Base:     domain.BaseStatusOptions(class),
		Advanced: domain.AdvancedStatusOptions(class),
	}, nil
}

func (r *Resolver) postCategories(context.Context, map[string]any) (any, error) {
	return domain.PostCategories(), nil
}

func (r *Resolver) account(ctx context.Context, _ map[string]any) (any, error) {
	return toUser(viewer(ctx)), nil
}

func (r *Resolver) chatToken(ctx context.Context, _ map[string]any) (any, error) {
	token, err := r.Chat.Token(viewer(ctx).ID)
	if err != nil {
		return nil, fail(err)
	}
	return token, nil
}

func (r *Resolver) post(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[postIDArgs](raw)
	if err != nil {
		return nil, err
	}
	p, err := r.Posts.Get(ctx, viewer(ctx), args.PostID)
	if err != nil {
		return nil, fail(err)
	}
	return toPost(p), nil
}

func (r *Resolver) posts(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[postsArgs](raw)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.PostCategory, len(args.Categories))
	for i, c := range args.Categories {
		categories[i] = domain.PostCategory(c)
	}
	posts, err := r.Posts.Feed(ctx, viewer(ctx), categories, domain.PostRoleFilter(args.RoleFilter))
	if err != nil {
		return nil, fail(err)
	}
	return mapList(posts, toPost), nil
}

func (r *Resolver) funds(ctx context.Context, _ map[string]any) (any, error) {
	funds, err := r.Funds.List(ctx, viewer(ctx))
	if err != nil {
		return nil, fail(err)
	}
	return mapList(funds, toFund), nil
}

func (r *Resolver) fund(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[fundIDArgs](raw)
	if err != nil {
		return nil, err
	}
	f, err := r.Funds.Get(ctx, viewer(ctx), args.FundID)
	if err != nil {
		return nil, fail(err)
	}
	return toFund(f), nil
}

func (r *Resolver) fundManagers(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[featuredArgs](raw)
	if err != nil {
		return nil, err
	}
	res, err := r.Users.FundManagers(ctx, viewer(ctx), args.Featured)
	if err != nil {
		return nil, fail(err)
	}
	return toFundManagers(res), nil
}

func (r *Resolver) fundCompanies(ctx context.Context, _ map[string]any) (any, error) {
	companies, err := r.Funds.Companies(ctx)
	if err != nil {
		return nil, fail(err)
	}
	return mapList(companies, toCompany), nil
}

func (r *Resolver) professionals(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[featuredArgs](raw)
	if err != nil {
		return nil, err
	}
	users, err := r.Users.Professionals(ctx, args.Featured)
	if err != nil {
		return nil, fail(err)
	}
	return mapList(users, func(u domain.User) any { return toProfile(domain.FullUser(u)) }), nil
}

func (r *Resolver) userProfile(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[userIDArgs](raw)
	if err != nil {
		return nil, err
	}
	ref, err := r.Users.Profile(ctx, args.UserID)
	if err != nil {
		return nil, fail(err)
	}
	return toProfile(ref), nil
}

func (r *Resolver) companyProfile(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[companyIDArgs](raw)
	if err != nil {
		return nil, err
	}
	c, err := r.Companies.Get(ctx, args.CompanyID)
	if err != nil {
		return nil, fail(err)
	}
	return toCompany(c), nil
}

func (r *Resolver) notifications(ctx context.Context, _ map[string]any) (any, error) {
	notes, err := r.Notifications.List(ctx, viewer(ctx))
	if err != nil {
		return nil, fail(err)
	}
	return mapList(notes, toNotification), nil
}

func (r *Resolver) mentionUsers(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[searchArgs](raw)
	if err != nil {
		return nil, err
	}
	users, err := r.Users.MentionUsers(ctx, viewer(ctx), args.Search)
	if err != nil {
		return nil, fail(err)
	}
	return mapList(users, func(u domain.User) any { return toProfile(domain.FullUser(u)) }), nil
}

func (r *Resolver) globalSearch(ctx context.Context, raw map[string]any) (any, error) {
	args, err := validatex.Args[searchArgs](raw)
	if err != nil {
		return nil, err
	}
	res, err := r.Search.Global(ctx, viewer(ctx), args.Search)
	if err != nil {
		return nil, fail(err)
	}
	return toSearch(res), nil
}

func (r *Resolver) users(ctx context.Context, _ map[string]any) (any, error) {
	refs, err := r.Users.Users(ctx)
	if err != nil {
		return nil, fail(err)
	}
	return mapList(refs, toProfile), nil
}
