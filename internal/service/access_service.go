package service

import (
	"context"

	"guildapply/internal/models"
	"guildapply/internal/observability"
	"guildapply/internal/repository"
)

// AccessService resolves the authorization tier of an identity. Nothing is
// cached: each call reads the admin and moderator sets.
type AccessService struct {
	admins     repository.RoleRepository
	moderators repository.RoleRepository
}

func NewAccessService(admins, moderators repository.RoleRepository) *AccessService {
	return &AccessService{admins: admins, moderators: moderators}
}

// ResolveRoles reports admin and moderator membership. An admin is always a
// moderator, whether or not a moderator row exists.
func (s *AccessService) ResolveRoles(ctx context.Context, externalID string) (models.Roles, error) {
	ctx, span := observability.StartOperation(ctx, "AccessService", "ResolveRoles")
	defer span.End()

	if externalID == "" {
		return models.Roles{}, nil
	}
	isAdmin, err := s.admins.Exists(ctx, externalID)
	if err != nil {
		return models.Roles{}, err
	}
	if isAdmin {
		return models.Roles{IsAdmin: true, IsModerator: true}, nil
	}
	isModerator, err := s.moderators.Exists(ctx, externalID)
	if err != nil {
		return models.Roles{}, err
	}
	return models.Roles{IsModerator: isModerator}, nil
}

// Actor resolves roles for identity. A nil identity yields an anonymous actor.
func (s *AccessService) Actor(ctx context.Context, identity *models.Identity) (models.Actor, error) {
	if identity == nil {
		return models.Actor{}, nil
	}
	roles, err := s.ResolveRoles(ctx, identity.ExternalID)
	if err != nil {
		return models.Actor{}, err
	}
	return models.Actor{Identity: *identity, Roles: roles}, nil
}

// Authorize fails unless actor holds at least tier.
func Authorize(actor models.Actor, tier models.Tier) error {
	if !actor.Authenticated() {
		return models.NewUnauthenticatedError("Unauthorized: Please log in.")
	}
	if actor.Tier() < tier {
		observability.AuthorizationDenied.WithLabelValues(tier.String()).Inc()
		return models.NewInsufficientTierError(tier)
	}
	return nil
}
