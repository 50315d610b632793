package models

// Identity is the acting user resolved from a session. It is never persisted.
type Identity struct {
	ExternalID  string  `json:"id"`
	DisplayName string  `json:"username"`
	AvatarURL   *string `json:"avatar"`
}

// Roles is the authorization snapshot for one identity at one point in time.
type Roles struct {
	IsAdmin     bool `json:"isAdmin"`
	IsModerator bool `json:"isModerator"`
}

// Tier is the strictly ordered authorization level.
type Tier int

const (
	TierAnonymous Tier = iota
	TierAuthenticated
	TierModerator
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAuthenticated:
		return "authenticated"
	case TierModerator:
		return "moderator"
	case TierAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Tier collapses the role flags into the highest tier they grant.
func (r Roles) Tier() Tier {
	switch {
	case r.IsAdmin:
		return TierAdmin
	case r.IsModerator:
		return TierModerator
	default:
		return TierAuthenticated
	}
}

// Actor is an authenticated identity with the roles resolved for the current
// request. Its JSON form is the session payload.
type Actor struct {
	Identity
	Roles
}

// Authenticated reports whether the actor carries a resolved identity.
func (a Actor) Authenticated() bool {
	return a.ExternalID != ""
}

// NewInsufficientTierError is the Forbidden error for a caller below tier.
func NewInsufficientTierError(tier Tier) *AppError {
	label := "Authenticated"
	switch tier {
	case TierAdmin:
		label = "Admin"
	case TierModerator:
		label = "Moderator or Admin"
	}
	return NewForbiddenError(ReasonInsufficientTier, "Forbidden: "+label+" access required.")
}
