package server

import (
	"guildapply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags lists known and configured flags, evaluated for the caller.
// @Summary Feature flags
// @Tags admin
// @Produce json
// @Success 200 {object} object{flags=[]featureflags.FlagState}
// @Security SessionCookie
// @Router /api/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.featureFlags.Describe(middleware.ActorFrom(c).ExternalID)})
}
