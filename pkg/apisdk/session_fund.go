package apisdk

import "context"

// Funds lists the funds the member's accreditation allows them to see.
func (s *Session) Funds(ctx context.Context) ([]Fund, error) {
	var out struct {
		Funds []Fund `json:"funds"`
	}
	err := s.Do(ctx, `{ funds { `+fundFields+` } }`, nil, &out)
	return out.Funds, err
}

func (s *Session) Fund(ctx context.Context, fundID string) (*Fund, error) {
	var out struct {
		Fund *Fund `json:"fund"`
	}
	err := s.Do(ctx, `query ($id: ID!) { fund(fundId: $id) { `+fundFields+` } }`,
		map[string]any{"id": fundID}, &out)
	if err != nil {
		return nil, err
	}
	return out.Fund, nil
}

// CreateFund is available to professionals only.
func (s *Session) CreateFund(ctx context.Context, fund FundInput) (*Fund, error) {
	var out struct {
		CreateFund *Fund `json:"createFund"`
	}
	err := s.Do(ctx, `mutation ($fund: FundInput!) { createFund(fund: $fund) { `+fundFields+` } }`,
		map[string]any{"fund": fund}, &out)
	if err != nil {
		return nil, err
	}
	return out.CreateFund, nil
}

func (s *Session) FundManagers(ctx context.Context, featuredOnly bool) (*FundManagers, error) {
	var out struct {
		FundManagers *FundManagers `json:"fundManagers"`
	}
	err := s.Do(ctx, `query ($featured: Boolean) { fundManagers(featured: $featured) {
		managers { `+userFields+` } funds { `+fundFields+` }
	} }`, map[string]any{"featured": featuredOnly}, &out)
	if err != nil {
		return nil, err
	}
	return out.FundManagers, nil
}

// FundCompanies lists the companies that manage at least one fund.
func (s *Session) FundCompanies(ctx context.Context) ([]Company, error) {
	var out struct {
		FundCompanies []Company `json:"fundCompanies"`
	}
	err := s.Do(ctx, `{ fundCompanies { `+companyFields+` } }`, nil, &out)
	return out.FundCompanies, err
}

func (s *Session) CreateCompany(ctx context.Context, company CompanyInput) (*Company, error) {
	var out struct {
		CreateCompany *Company `json:"createCompany"`
	}
	err := s.Do(ctx, `mutation ($company: CompanyInput!) { createCompany(company: $company) { `+companyFields+` } }`,
		map[string]any{"company": company}, &out)
	if err != nil {
		return nil, err
	}
	return out.CreateCompany, nil
}

func (s *Session) CompanyProfile(ctx context.Context, companyID string) (*Company, error) {
	var out struct {
		CompanyProfile *Company `json:"companyProfile"`
	}
	err := s.Do(ctx, `query ($id: ID!) { companyProfile(companyId: $id) { `+companyFields+` } }`,
		map[string]any{"id": companyID}, &out)
	if err != nil {
		return nil, err
	}
	return out.CompanyProfile, nil
}
