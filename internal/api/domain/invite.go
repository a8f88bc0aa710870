package domain

import "time"

type Invite struct {
	ID        string
	Email     string
	TokenHash string
	CreatedBy string // empty when minted from the CLI
	ExpiresAt time.Time
	Used      bool
	UsedBy    string // empty until redeemed
	CreatedAt time.Time
	UpdatedAt time.Time
}
