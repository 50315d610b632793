package service

import (
	"context"
	"strings"

	"guildapply/internal/models"
	"guildapply/internal/repository"
	"guildapply/internal/validation"
)

// RoleService manages the admin set, the moderator set and the blacklist.
// Every operation requires an admin actor.
type RoleService struct {
	admins     repository.RoleRepository
	moderators repository.RoleRepository
	blacklist  repository.BlacklistRepository
}

func NewRoleService(admins, moderators repository.RoleRepository, blacklist repository.BlacklistRepository) *RoleService {
	return &RoleService{admins: admins, moderators: moderators, blacklist: blacklist}
}

// MemberInput identifies the user being granted a role or blacklisted.
type MemberInput struct {
	ExternalID  string
	DisplayName string
	Reason      *string
}

func (in MemberInput) validate() (MemberInput, error) {
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.ExternalID == "" || in.DisplayName == "" {
		return in, models.NewValidationError("Discord ID and username are required.")
	}
	if err := validation.ValidateExternalID(in.ExternalID); err != nil {
		return in, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return in, models.NewValidationError(err.Error())
	}
	in.Reason = models.NormalizeReason(in.Reason)
	if err := validation.ValidateReason(in.Reason); err != nil {
		return in, models.NewValidationError(err.Error())
	}
	return in, nil
}

func (s *RoleService) set(kind models.RoleKind) repository.RoleRepository {
	if kind == models.RoleAdmin {
		return s.admins
	}
	return s.moderators
}

// ListRole returns every member of the admin or moderator set.
func (s *RoleService) ListRole(ctx context.Context, actor models.Actor, kind models.RoleKind) ([]models.RoleAssignment, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	return s.set(kind).List(ctx)
}

// Grant adds a user to the admin or moderator set, stamped with actor.
func (s *RoleService) Grant(ctx context.Context, actor models.Actor, kind models.RoleKind, in MemberInput) (*models.RoleAssignment, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	assignment := &models.RoleAssignment{
		ExternalID:         in.ExternalID,
		DisplayName:        in.DisplayName,
		AddedByExternalID:  actor.ExternalID,
		AddedByDisplayName: actor.DisplayName,
	}
	if err := s.set(kind).Add(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Revoke removes a user from the admin or moderator set. Admins cannot remove
// themselves from the admin set.
func (s *RoleService) Revoke(ctx context.Context, actor models.Actor, kind models.RoleKind, externalID string) (*models.RoleAssignment, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	externalID = strings.TrimSpace(externalID)
	if kind == models.RoleAdmin && externalID == actor.ExternalID {
		return nil, models.NewForbiddenError(models.ReasonSelfRemoval, "You cannot remove yourself as an admin.")
	}
	return s.set(kind).Remove(ctx, externalID)
}

// ListBlacklist returns every blacklist entry.
func (s *RoleService) ListBlacklist(ctx context.Context, actor models.Actor) ([]models.BlacklistEntry, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	return s.blacklist.List(ctx)
}

// Blacklist blocks a user from submitting, stamped with actor.
func (s *RoleService) Blacklist(ctx context.Context, actor models.Actor, in MemberInput) (*models.BlacklistEntry, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	entry := &models.BlacklistEntry{
		ExternalID:               in.ExternalID,
		DisplayName:              in.DisplayName,
		Reason:                   in.Reason,
		BlacklistedByExternalID:  actor.ExternalID,
		BlacklistedByDisplayName: actor.DisplayName,
	}
	if err := s.blacklist.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Unblacklist removes a blacklist entry.
func (s *RoleService) Unblacklist(ctx context.Context, actor models.Actor, externalID string) (*models.BlacklistEntry, error) {
	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	return s.blacklist.Remove(ctx, strings.TrimSpace(externalID))
}
