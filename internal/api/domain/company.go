package domain

import "time"

type Company struct {
	ID         string
	Name       string
	Avatar     string
	Background string
	Website    string
	Tagline    string
	Overview   string

	// IsFundCompany is true when at least one fund belongs to the company.
	IsFundCompany bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
