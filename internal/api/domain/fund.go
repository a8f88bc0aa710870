package domain

import "time"

type AssetClass string

const (
	AssetHedgeFund      AssetClass = "HEDGE_FUND"
	AssetPrivateEquity  AssetClass = "PRIVATE_EQUITY"
	AssetVentureCapital AssetClass = "VENTURE_CAPITAL"
	AssetRealEstate     AssetClass = "REAL_ESTATE"
	AssetPrivateCredit  AssetClass = "PRIVATE_CREDIT"
	AssetDigitalAssets  AssetClass = "DIGITAL_ASSETS"
)

func AssetClasses() []string {
	return []string{
		string(AssetHedgeFund),
		string(AssetPrivateEquity),
		string(AssetVentureCapital),
		string(AssetRealEstate),
		string(AssetPrivateCredit),
		string(AssetDigitalAssets),
	}
}

// Fund is an investment vehicle. Level is the minimum accreditation needed
// to see it; it is fixed when the fund is created.
type Fund struct {
	ID         string
	Name       string
	CompanyID  string
	ManagerID  string
	Level      Accreditation
	AssetClass AssetClass
	Overview   string
	Highlights []string
	Tags       []string
	Featured   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccessibleFunds keeps the funds a holder of level may see, in order.
func AccessibleFunds(funds []Fund, level Accreditation) []Fund {
	out := make([]Fund, 0, len(funds))
	for _, f := range funds {
		if CanAccess(level, f.Level) {
			out = append(out, f)
		}
	}
	return out
}
