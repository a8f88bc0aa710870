package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

type CompanyService struct {
	Store store.Store
}

type NewCompany struct {
	Name       string
	Avatar     string
	Background string
	Website    string
	Tagline    string
	Overview   string
}

func (s *CompanyService) Get(ctx context.Context, companyID string) (domain.Company, error) {
	c, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, ErrCompanyNotFound
		}
		return domain.Company{}, err
	}
	return c, nil
}

func (s *CompanyService) Create(ctx context.Context, viewer domain.User, in NewCompany) (domain.Company, error) {
	log := slogx.FromContext(ctx)

	c := domain.Company{
		ID:         idx.New().String(),
		Name:       in.Name,
		Avatar:     in.Avatar,
		Background: in.Background,
		Website:    in.Website,
		Tagline:    in.Tagline,
		Overview:   in.Overview,
	}
	if err := s.Store.Companies().CreateCompany(ctx, c); err != nil {
		log.Error("failed to create company", slog.Any("error", err))
		return domain.Company{}, err
	}

	log.Info("company created", slog.String("company_id", c.ID), slog.String("created_by", viewer.ID))
	return s.Get(ctx, c.ID)
}
