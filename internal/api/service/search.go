package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
)

// SearchLimit caps each result list of a global search.
const SearchLimit = 20

type SearchResult struct {
	Users     []domain.User
	Companies []domain.Company
	Posts     []domain.Post
	Funds     []domain.Fund
}

type SearchService struct {
	Store store.Store
}

// Global runs the four keyword searches concurrently. Any failure fails the
// whole search. Posts and funds are limited to what the viewer may see, and
// posts also skip what the viewer has hidden.
func (s *SearchService) Global(ctx context.Context, viewer domain.User, keyword string) (SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return SearchResult{}, nil
	}

	var res SearchResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		refs, err := s.Store.Users().SearchUsers(gctx, keyword, SearchLimit)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if u, ok := ref.Full(); ok {
				res.Users = append(res.Users, u)
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Companies, err = s.Store.Companies().SearchCompanies(gctx, keyword, SearchLimit)
		return err
	})
	g.Go(func() error {
		var err error
		res.Posts, err = s.Store.Posts().SearchPosts(gctx, keyword,
			domain.NewPostFilter(viewer, nil, domain.RoleFilterEveryone), SearchLimit)
		return err
	})
	g.Go(func() error {
		var err error
		res.Funds, err = s.Store.Funds().SearchFunds(gctx, keyword,
			domain.LevelsAtOrBelow(viewer.Accreditation), SearchLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return res, nil
}
