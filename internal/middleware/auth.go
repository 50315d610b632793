// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strings"

	"guildapply/internal/models"
	"guildapply/internal/observability"
	"guildapply/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "guildapply_session"

// Locals keys shared with handlers.
const (
	LocalIdentity = "identity"
	LocalUserID   = "userID"
	LocalRoles    = "roles"
	LocalTokenID  = "sessionID"
)

// SessionResolver turns a raw session token into the identity it was issued for.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, string, error)
}

// RoleResolver computes the current role flags for an identity.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, externalID string) (models.Roles, error)
}

// SessionToken returns the session token from the cookie or an Authorization bearer header.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func attachIdentity(c *fiber.Ctx, identity *models.Identity, tokenID string) {
	c.Locals(LocalIdentity, identity)
	c.Locals(LocalUserID, identity.ExternalID)
	c.Locals(LocalTokenID, tokenID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.ExternalID))
}

// SessionOptional attaches the identity when a valid session is present and never rejects.
func SessionOptional(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := SessionToken(c); token != "" {
			if identity, tokenID, err := resolver.Resolve(c.UserContext(), token); err == nil {
				attachIdentity(c, identity, tokenID)
			}
		}
		return c.Next()
	}
}

// SessionRequired rejects requests without a valid, unrevoked session. Only
// session.ErrInvalidSession is a 401; a failing revocation lookup is a 500.
func SessionRequired(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return models.Respond(c, models.NewUnauthenticatedError("Unauthorized: Please log in."))
		}
		identity, tokenID, err := resolver.Resolve(c.UserContext(), token)
		switch {
		case errors.Is(err, session.ErrInvalidSession):
			return models.Respond(c, models.NewUnauthenticatedError("Unauthorized: Please log in."))
		case err != nil:
			return models.Respond(c, models.NewInternalError(err))
		}
		attachIdentity(c, identity, tokenID)
		return c.Next()
	}
}

// IdentityFrom returns the identity attached by SessionRequired, if any.
func IdentityFrom(c *fiber.Ctx) (*models.Identity, bool) {
	identity, ok := c.Locals(LocalIdentity).(*models.Identity)
	return identity, ok && identity != nil
}

// RequireTier rejects sessions whose current roles fall below tier.
// Roles are recomputed on every request so grants and revocations apply immediately.
func RequireTier(roles RoleResolver, tier models.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return models.Respond(c, models.NewUnauthenticatedError("Unauthorized: Please log in."))
		}
		current, err := roles.ResolveRoles(c.UserContext(), identity.ExternalID)
		if err != nil {
			return models.Respond(c, err)
		}
		c.Locals(LocalRoles, current)
		if current.Tier() < tier {
			observability.AuthorizationDenied.WithLabelValues(tier.String()).Inc()
			return models.Respond(c, models.NewInsufficientTierError(tier))
		}
		return c.Next()
	}
}

// ActorFrom builds the actor for handlers. Roles are only present when a
// RequireTier middleware ran earlier in the chain.
func ActorFrom(c *fiber.Ctx) models.Actor {
	var actor models.Actor
	if identity, ok := IdentityFrom(c); ok {
		actor.Identity = *identity
	}
	if roles, ok := c.Locals(LocalRoles).(models.Roles); ok {
		actor.Roles = roles
	}
	return actor
}
