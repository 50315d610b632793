package server

import (
	"guildapply/internal/middleware"
	"guildapply/internal/models"
	"guildapply/internal/service"

	"github.com/gofiber/fiber/v2"
)

type memberRequest struct {
	DiscordID string  `json:"discordId"`
	Username  string  `json:"username"`
	Reason    *string `json:"reason"`
}

func parseMember(c *fiber.Ctx) (service.MemberInput, error) {
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return service.MemberInput{}, models.NewValidationError("Invalid request body")
	}
	return service.MemberInput{
		ExternalID:  req.DiscordID,
		DisplayName: req.Username,
		Reason:      req.Reason,
	}, nil
}

func (s *Server) listRole(c *fiber.Ctx, kind models.RoleKind, key string) error {
	members, err := s.roles.ListRole(c.UserContext(), middleware.ActorFrom(c), kind)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, key: members})
}

func (s *Server) grantRole(c *fiber.Ctx, kind models.RoleKind, key string) error {
	in, err := parseMember(c)
	if err != nil {
		return models.Respond(c, err)
	}
	added, err := s.roles.Grant(c.UserContext(), middleware.ActorFrom(c), kind, in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": kind.Label() + " added successfully!",
		key:       added,
	})
}

func (s *Server) revokeRole(c *fiber.Ctx, kind models.RoleKind) error {
	if _, err := s.roles.Revoke(c.UserContext(), middleware.ActorFrom(c), kind, c.Params("discordId")); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": kind.Label() + " removed successfully!"})
}

// GetAdmins handles GET /api/admins
// @Summary List admins
// @Tags roles
// @Produce json
// @Success 200 {object} object{success=bool,admins=[]models.RoleAssignment}
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admins [get]
func (s *Server) GetAdmins(c *fiber.Ctx) error {
	return s.listRole(c, models.RoleAdmin, "admins")
}

// AddAdmin handles POST /api/admins
// @Summary Grant admin
// @Tags roles
// @Accept json
// @Produce json
// @Param request body object{discordId=string,username=string} true "User"
// @Success 200 {object} object{success=bool,message=string,admin=models.RoleAssignment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/admins [post]
func (s *Server) AddAdmin(c *fiber.Ctx) error {
	return s.grantRole(c, models.RoleAdmin, "admin")
}

// RemoveAdmin handles DELETE /api/admins/:discordId
// @Summary Revoke admin
// @Tags roles
// @Produce json
// @Param discordId path string true "Discord user ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admins/{discordId} [delete]
func (s *Server) RemoveAdmin(c *fiber.Ctx) error {
	return s.revokeRole(c, models.RoleAdmin)
}

// GetModerators handles GET /api/moderators
// @Summary List moderators
// @Tags roles
// @Produce json
// @Success 200 {object} object{success=bool,moderators=[]models.RoleAssignment}
// @Router /api/moderators [get]
func (s *Server) GetModerators(c *fiber.Ctx) error {
	return s.listRole(c, models.RoleModerator, "moderators")
}

// AddModerator handles POST /api/moderators
// @Summary Grant moderator
// @Tags roles
// @Accept json
// @Produce json
// @Param request body object{discordId=string,username=string} true "User"
// @Success 200 {object} object{success=bool,message=string,moderator=models.RoleAssignment}
// @Router /api/moderators [post]
func (s *Server) AddModerator(c *fiber.Ctx) error {
	return s.grantRole(c, models.RoleModerator, "moderator")
}

// RemoveModerator handles DELETE /api/moderators/:discordId
// @Summary Revoke moderator
// @Tags roles
// @Param discordId path string true "Discord user ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/moderators/{discordId} [delete]
func (s *Server) RemoveModerator(c *fiber.Ctx) error {
	return s.revokeRole(c, models.RoleModerator)
}

// GetBlacklist handles GET /api/blacklist
// @Summary List blacklisted users
// @Tags blacklist
// @Produce json
// @Success 200 {object} object{success=bool,blacklistedUsers=[]models.BlacklistEntry}
// @Router /api/blacklist [get]
func (s *Server) GetBlacklist(c *fiber.Ctx) error {
	entries, err := s.roles.ListBlacklist(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "blacklistedUsers": entries})
}

// AddToBlacklist handles POST /api/blacklist
// @Summary Blacklist a user
// @Tags blacklist
// @Accept json
// @Produce json
// @Param request body object{discordId=string,username=string,reason=string} true "User"
// @Success 200 {object} object{success=bool,message=string,blacklistedUser=models.BlacklistEntry}
// @Failure 409 {object} models.ErrorResponse
// @Router /api/blacklist [post]
func (s *Server) AddToBlacklist(c *fiber.Ctx) error {
	in, err := parseMember(c)
	if err != nil {
		return models.Respond(c, err)
	}
	entry, err := s.roles.Blacklist(c.UserContext(), middleware.ActorFrom(c), in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "User blacklisted successfully!",
		"blacklistedUser": entry,
	})
}

// RemoveFromBlacklist handles DELETE /api/blacklist/:discordId
// @Summary Remove a user from the blacklist
// @Tags blacklist
// @Param discordId path string true "Discord user ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/blacklist/{discordId} [delete]
func (s *Server) RemoveFromBlacklist(c *fiber.Ctx) error {
	if _, err := s.roles.Unblacklist(c.UserContext(), middleware.ActorFrom(c), c.Params("discordId")); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "User removed from blacklist successfully!"})
}
