package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/idx"
)

func TestFunds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newStore(t)
	svc := &service.FundService{Store: s}
	company := seedCompany(t, s, "Acme Capital")
	pro := seedUser(t, s, "pro@example.com",
		withRole(domain.RoleProfessional), withLevel(domain.AccreditationQualifiedPurchaser))
	member := seedUser(t, s, "member@example.com", withLevel(domain.AccreditationAccredited))

	t.Run("create requires professional", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, member, service.NewFund{Name: "x", CompanyID: company.ID, Level: domain.AccreditationEveryone})
		require.ErrorIs(t, err, service.ErrNotProfessional)
	})

	t.Run("create requires a level", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, pro, service.NewFund{Name: "x", CompanyID: company.ID})
		require.ErrorIs(t, err, service.ErrInvalidLevel)
	})

	t.Run("create requires a company", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, pro, service.NewFund{Name: "x", CompanyID: idx.New().String(), Level: domain.AccreditationEveryone})
		require.ErrorIs(t, err, service.ErrCompanyNotFound)
	})

	t.Run("visibility follows level", func(t *testing.T) {
		t.Parallel()
		open, err := svc.Create(ctx, pro, service.NewFund{
			Name: "Open", CompanyID: company.ID, Level: domain.AccreditationAccredited,
			AssetClass: domain.AssetRealEstate, Highlights: []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, pro.ID, open.ManagerID)
		assert.Equal(t, []string{"a", "b"}, open.Highlights)

		closed, err := svc.Create(ctx, pro, service.NewFund{
			Name: "Closed", CompanyID: company.ID, Level: domain.AccreditationQualifiedPurchaser,
		})
		require.NoError(t, err)

		_, err = svc.Get(ctx, member, open.ID)
		require.NoError(t, err)
		_, err = svc.Get(ctx, member, closed.ID)
		require.ErrorIs(t, err, service.ErrFundNotVisible)
		_, err = svc.Get(ctx, member, idx.New().String())
		require.ErrorIs(t, err, service.ErrFundNotFound)

		list, err := svc.List(ctx, member)
		require.NoError(t, err)
		for _, f := range list {
			assert.True(t, domain.CanAccess(member.Accreditation, f.Level))
		}

		companies, err := svc.Companies(ctx)
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, company.ID, companies[0].ID)
	})
}
