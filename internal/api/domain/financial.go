package domain

import "slices"

// InvestorClass is how a user invests: personally, through an entity, or on
// behalf of clients.
type InvestorClass string

const (
	InvestorIndividual InvestorClass = "INDIVIDUAL"
	InvestorEntity     InvestorClass = "ENTITY"
	InvestorAdvisor    InvestorClass = "ADVISOR"
)

func (c InvestorClass) Valid() bool {
	switch c {
	case InvestorIndividual, InvestorEntity, InvestorAdvisor:
		return true
	}
	return false
}

// FinancialStatus is one yes/no attestation of the accreditation
// questionnaire.
type FinancialStatus string

const (
	StatusMinIncome     FinancialStatus = "MIN_INCOME"
	StatusNetWorth      FinancialStatus = "NET_WORTH"
	StatusLicensed      FinancialStatus = "LICENSED"
	StatusAffiliated    FinancialStatus = "AFFILIATED"
	StatusAssets        FinancialStatus = "ASSETS"
	StatusAIOwners      FinancialStatus = "AI_OWNERS"
	StatusTier1         FinancialStatus = "TIER1"
	StatusTier2         FinancialStatus = "TIER2"
	StatusQPOwners      FinancialStatus = "QP_OWNERS"
	StatusTier1AIOwners FinancialStatus = "TIER1_AI_OWNERS"
	StatusTrustAssets   FinancialStatus = "TRUST_ASSETS"
	StatusTier3         FinancialStatus = "TIER3"
)

// Option is one entry of a static option table.
type Option struct {
	Value       string `json:"value"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var statusText = map[FinancialStatus]Option{
	StatusMinIncome: {
		Title:       "Income",
		Description: "I earned $200k+ (or $300k+ jointly with a spouse) in each of the last two years and expect the same this year.",
	},
	StatusNetWorth: {
		Title:       "Net worth",
		Description: "I have a net worth over $1M, excluding my primary residence, alone or with a spouse.",
	},
	StatusLicensed: {
		Title:       "Licensed professional",
		Description: "I hold a Series 7, Series 65 or Series 82 license in good standing.",
	},
	StatusAffiliated: {
		Title:       "Affiliated",
		Description: "I am a director, executive officer or knowledgeable employee of the fund offered.",
	},
	StatusAssets: {
		Title:       "Entity assets",
		Description: "The entity has over $5M in assets and was not formed to acquire the securities offered.",
	},
	StatusAIOwners: {
		Title:       "Accredited owners",
		Description: "Every equity owner of the entity is an accredited investor.",
	},
	StatusTier1: {
		Title:       "Investments over $5M",
		Description: "I own $5M or more in investments, alone or jointly with a spouse.",
	},
	StatusTier2: {
		Title:       "Family company",
		Description: "I invest on behalf of a family-owned company with $5M or more in investments.",
	},
	StatusQPOwners: {
		Title:       "Qualified purchaser owners",
		Description: "Every equity owner of the entity is a qualified purchaser.",
	},
	StatusTier1AIOwners: {
		Title:       "Investments over $25M",
		Description: "The entity owns and invests $25M or more on a discretionary basis.",
	},
	StatusTrustAssets: {
		Title:       "Trust",
		Description: "The trust was not formed to acquire the securities and its trustee and settlors are qualified purchasers.",
	},
	StatusTier3: {
		Title:       "Family-owned entity",
		Description: "The entity is owned by related persons and holds $5M or more in investments.",
	},
}

type statusTable struct {
	base     []FinancialStatus
	advanced []FinancialStatus
}

var (
	individualTable = statusTable{
		base:     []FinancialStatus{StatusMinIncome, StatusNetWorth, StatusLicensed, StatusAffiliated},
		advanced: []FinancialStatus{StatusTier1, StatusTier2},
	}
	entityTable = statusTable{
		base:     []FinancialStatus{StatusAssets, StatusAIOwners, StatusLicensed, StatusAffiliated},
		advanced: []FinancialStatus{StatusQPOwners, StatusTier1AIOwners, StatusTrustAssets, StatusTier3},
	}
)

// advisors attest for themselves, so they answer the individual
// questionnaire.
func tableFor(class InvestorClass) statusTable {
	if class == InvestorEntity {
		return entityTable
	}
	return individualTable
}

// FinancialStatuses returns every attestation value.
func FinancialStatuses() []FinancialStatus {
	return []FinancialStatus{
		StatusMinIncome, StatusNetWorth, StatusLicensed, StatusAffiliated,
		StatusAssets, StatusAIOwners, StatusTier1, StatusTier2,
		StatusQPOwners, StatusTier1AIOwners, StatusTrustAssets, StatusTier3,
	}
}

// BaseStatusOptions lists the base tier questions for class.
func BaseStatusOptions(class InvestorClass) []Option {
	return options(tableFor(class).base)
}

// AdvancedStatusOptions lists the advanced tier questions for class.
func AdvancedStatusOptions(class InvestorClass) []Option {
	return options(tableFor(class).advanced)
}

func options(statuses []FinancialStatus) []Option {
	out := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		o := statusText[s]
		o.Value = string(s)
		out = append(out, o)
	}
	return out
}

// InvestorClassOptions lists the classes in display order.
func InvestorClassOptions() []Option {
	return []Option{
		{Value: string(InvestorIndividual), Title: "Individual", Description: "I invest my own money."},
		{Value: string(InvestorEntity), Title: "Entity", Description: "I invest on behalf of a company, trust or fund."},
		{Value: string(InvestorAdvisor), Title: "Advisor", Description: "I advise clients on their investments."},
	}
}

// StatusAllowed reports whether s is a question asked of class.
func StatusAllowed(class InvestorClass, s FinancialStatus) bool {
	t := tableFor(class)
	return slices.Contains(t.base, s) || slices.Contains(t.advanced, s)
}

// DeriveAccreditation computes the level implied by the true answers of
// class. Any advanced answer qualifies as a purchaser, otherwise any base
// answer as accredited, otherwise the user may see content for everyone.
func DeriveAccreditation(class InvestorClass, answers []FinancialStatus) Accreditation {
	t := tableFor(class)
	for _, a := range answers {
		if slices.Contains(t.advanced, a) {
			return AccreditationQualifiedPurchaser
		}
	}
	for _, a := range answers {
		if slices.Contains(t.base, a) {
			return AccreditationAccredited
		}
	}
	return AccreditationEveryone
}
