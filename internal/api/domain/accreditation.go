package domain

// Accreditation is an investor qualification level. Levels form a total
// order; see CompareAccreditation.
type Accreditation string

const (
	AccreditationNone               Accreditation = "none"
	AccreditationEveryone           Accreditation = "everyone"
	AccreditationAccredited         Accreditation = "accredited"
	AccreditationQualifiedClient    Accreditation = "client"
	AccreditationQualifiedPurchaser Accreditation = "purchaser"
)

// accreditationRank is the one place the ordering is defined:
//
//	none < everyone < accredited < client < purchaser
//
// A qualified purchaser clears every qualified client threshold, so the
// purchaser level ranks highest.
var accreditationRank = map[Accreditation]int{
	AccreditationNone:               0,
	AccreditationEveryone:           1,
	AccreditationAccredited:         2,
	AccreditationQualifiedClient:    3,
	AccreditationQualifiedPurchaser: 4,
}

// unknownRank sits below none so a corrupt level never grants access.
const unknownRank = -1

// Accreditations returns every level, lowest first.
func Accreditations() []Accreditation {
	return []Accreditation{
		AccreditationNone,
		AccreditationEveryone,
		AccreditationAccredited,
		AccreditationQualifiedClient,
		AccreditationQualifiedPurchaser,
	}
}

func (a Accreditation) rank() int {
	if r, ok := accreditationRank[a]; ok {
		return r
	}
	return unknownRank
}

// Valid reports whether a is one of the defined levels.
func (a Accreditation) Valid() bool {
	_, ok := accreditationRank[a]
	return ok
}

func (a Accreditation) String() string { return string(a) }

// CompareAccreditation returns -1, 0 or 1 when a's qualification is below,
// equal to, or above the requirement b.
func CompareAccreditation(a, b Accreditation) int {
	ra, rb := a.rank(), b.rank()
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// CanAccess reports whether a holder of level have may see content that
// requires level required.
func CanAccess(have, required Accreditation) bool {
	return CompareAccreditation(have, required) >= 0
}

// ForAudience is the level used when filtering posts: users who have not
// completed the questionnaire still see posts meant for everyone.
func (a Accreditation) ForAudience() Accreditation {
	if a == AccreditationNone {
		return AccreditationEveryone
	}
	return a
}

// LevelsAtOrBelow lists the levels a holder of a qualifies for, lowest first.
func LevelsAtOrBelow(a Accreditation) []Accreditation {
	var out []Accreditation
	for _, l := range Accreditations() {
		if CanAccess(a, l) {
			out = append(out, l)
		}
	}
	return out
}
