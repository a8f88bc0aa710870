package domain

// Audience is the visibility tier of a post.
type Audience string

const (
	AudienceEveryone           Audience = "EVERYONE"
	AudienceAccredited         Audience = "ACCREDITED"
	AudienceQualifiedPurchaser Audience = "QUALIFIED_PURCHASER"
	AudienceQualifiedClient    Audience = "QUALIFIED_CLIENT"
)

var audienceLevel = map[Audience]Accreditation{
	AudienceEveryone:           AccreditationEveryone,
	AudienceAccredited:         AccreditationAccredited,
	AudienceQualifiedClient:    AccreditationQualifiedClient,
	AudienceQualifiedPurchaser: AccreditationQualifiedPurchaser,
}

// Audiences returns every audience in declaration order.
func Audiences() []Audience {
	return []Audience{
		AudienceEveryone,
		AudienceAccredited,
		AudienceQualifiedPurchaser,
		AudienceQualifiedClient,
	}
}

// Normalize maps the absent audience to EVERYONE.
func (a Audience) Normalize() Audience {
	if a == "" {
		return AudienceEveryone
	}
	return a
}

func (a Audience) Valid() bool {
	_, ok := audienceLevel[a.Normalize()]
	return ok
}

// Required returns the accreditation a reader needs. Unknown audiences
// require the top level.
func (a Audience) Required() Accreditation {
	if l, ok := audienceLevel[a.Normalize()]; ok {
		return l
	}
	return AccreditationQualifiedPurchaser
}

// VisibleTo reports whether a reader at level may see posts for a. Callers
// degrade "none" with ForAudience first.
func (a Audience) VisibleTo(level Accreditation) bool {
	return CanAccess(level, a.Required())
}

// AudiencesVisibleTo lists the audiences a reader at level may see.
func AudiencesVisibleTo(level Accreditation) []Audience {
	var out []Audience
	for _, a := range Audiences() {
		if a.VisibleTo(level) {
			out = append(out, a)
		}
	}
	return out
}
