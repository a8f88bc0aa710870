package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser         Role = "user"
	RoleProfessional Role = "professional"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleProfessional }

// User is a registered member.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC string
	FirstName    string
	LastName     string
	Avatar       string
	Background   string
	Position     string
	Tagline      string
	Overview     string
	Website      string
	Role         Role
	Featured     bool
	CompanyIDs   []string

	Accreditation   Accreditation
	InvestorClass   InvestorClass // empty until the questionnaire is answered
	FinancialStatus []FinancialStatus

	FollowerIDs   []string
	FollowingIDs  []string
	HiddenPostIDs []string
	HiddenUserIDs []string

	// ManagedFundsIDs is derived from the funds this user manages; it is
	// never written through the user.
	ManagedFundsIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserStub is an invited person who has not registered yet.
type UserStub struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

type UserKind int

const (
	UserKindFull UserKind = iota + 1
	UserKindStub
)

// UserRef is either a registered user or a stub. The store decides which
// when it reads the row; nothing downstream inspects fields to find out.
type UserRef struct {
	Kind UserKind
	full User
	stub UserStub
}

func FullUser(u User) UserRef     { return UserRef{Kind: UserKindFull, full: u} }
func StubUser(s UserStub) UserRef { return UserRef{Kind: UserKindStub, stub: s} }

// Full returns the registered user, if that is what r holds.
func (r UserRef) Full() (User, bool) { return r.full, r.Kind == UserKindFull }

// Stub returns the stub, if that is what r holds.
func (r UserRef) Stub() (UserStub, bool) { return r.stub, r.Kind == UserKindStub }

func (r UserRef) ID() string {
	if r.Kind == UserKindStub {
		return r.stub.ID
	}
	return r.full.ID
}
