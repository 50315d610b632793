package cache

import "time"

const (
	SessionRevokedPrefix = "session:revoked:"
	OAuthStatePrefix     = "oauth:state:"
	// ApplicationEventsChannel carries review decisions for other subscribers.
	ApplicationEventsChannel = "applications:events"
)

const (
	OAuthStateTTL = 5 * time.Minute
)

func SessionRevokedKey(tokenID string) string {
	return SessionRevokedPrefix + tokenID
}

func OAuthStateKey(state string) string {
	return OAuthStatePrefix + state
}
