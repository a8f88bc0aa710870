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

type FundService struct {
	Store store.Store
}

// NewFund is what a professional submits to list a fund.
type NewFund struct {
	Name       string
	CompanyID  string
	Level      domain.Accreditation
	AssetClass domain.AssetClass
	Overview   string
	Highlights []string
	Tags       []string
}

// List returns the funds at or below the viewer's accreditation.
func (s *FundService) List(ctx context.Context, viewer domain.User) ([]domain.Fund, error) {
	return s.Store.Funds().ListFundsByLevels(ctx, domain.LevelsAtOrBelow(viewer.Accreditation))
}

func (s *FundService) Get(ctx context.Context, viewer domain.User, fundID string) (domain.Fund, error) {
	f, err := s.Store.Funds().GetFundByID(ctx, fundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fund{}, ErrFundNotFound
		}
		return domain.Fund{}, err
	}
	if !domain.CanAccess(viewer.Accreditation, f.Level) {
		slogx.FromContext(ctx).Debug("fund above viewer accreditation",
			slog.String("fund_id", f.ID),
			slog.String("level", string(f.Level)),
		)
		return domain.Fund{}, ErrFundNotVisible
	}
	return f, nil
}

// Create lists a fund managed by viewer. The level cannot change later.
func (s *FundService) Create(ctx context.Context, viewer domain.User, in NewFund) (domain.Fund, error) {
	log := slogx.FromContext(ctx)

	if viewer.Role != domain.RoleProfessional {
		return domain.Fund{}, ErrNotProfessional
	}
	if !in.Level.Valid() || in.Level == domain.AccreditationNone {
		return domain.Fund{}, ErrInvalidLevel
	}
	if _, err := s.Store.Companies().GetCompanyByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fund{}, ErrCompanyNotFound
		}
		return domain.Fund{}, err
	}

	f := domain.Fund{
		ID:         idx.New().String(),
		Name:       in.Name,
		CompanyID:  in.CompanyID,
		ManagerID:  viewer.ID,
		Level:      in.Level,
		AssetClass: in.AssetClass,
		Overview:   in.Overview,
		Highlights: in.Highlights,
		Tags:       in.Tags,
	}
	if err := s.Store.Funds().CreateFund(ctx, f); err != nil {
		log.Error("failed to create fund", slog.Any("error", err))
		return domain.Fund{}, err
	}

	log.Info("fund created",
		slog.String("fund_id", f.ID),
		slog.String("manager_id", viewer.ID),
		slog.String("level", string(f.Level)),
	)
	return s.Store.Funds().GetFundByID(ctx, f.ID)
}

// Companies returns the companies behind at least one fund.
func (s *FundService) Companies(ctx context.Context) ([]domain.Company, error) {
	return s.Store.Companies().ListFundCompanies(ctx)
}
