package server

import (
	"guildapply/internal/middleware"
	"guildapply/internal/models"
	"guildapply/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetApplicationTypes handles GET /api/application-types
// @Summary Application templates
// @Description Lists every application type with its questions
// @Tags applications
// @Produce json
// @Success 200 {object} map[string]catalog.Template
// @Router /api/application-types [get]
func (s *Server) GetApplicationTypes(c *fiber.Ctx) error {
	return c.JSON(s.applications.Templates())
}

// SubmitApplication handles POST /api/apply
// @Summary Submit an application
// @Tags applications
// @Accept json
// @Produce json
// @Param request body object{applicationType=string,answers=map[string]string} true "Application"
// @Success 200 {object} object{success=bool,message=string,application=models.Application}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/apply [post]
func (s *Server) SubmitApplication(c *fiber.Ctx) error {
	var req struct {
		ApplicationType string            `json:"applicationType"`
		Answers         map[string]string `json:"answers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("Invalid request body"))
	}

	app, err := s.applications.Submit(c.UserContext(), middleware.ActorFrom(c), service.SubmitInput{
		ApplicationType: req.ApplicationType,
		Answers:         req.Answers,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Application submitted successfully!",
		"application": app,
	})
}

// GetMyApplications handles GET /api/my-applications
// @Summary Own applications
// @Description Lists the caller's applications, newest first
// @Tags applications
// @Produce json
// @Success 200 {object} object{success=bool,applications=[]models.Application}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/my-applications [get]
func (s *Server) GetMyApplications(c *fiber.Ctx) error {
	apps, err := s.applications.ListMine(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "applications": apps})
}

// GetPendingApplications handles GET /api/applications
// @Summary Pending applications
// @Description Lists pending applications, oldest first. Without limit the list is unbounded.
// @Tags applications
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,applications=[]models.Application}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/applications [get]
func (s *Server) GetPendingApplications(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return models.Respond(c, err)
	}
	apps, err := s.applications.ListPending(c.UserContext(), middleware.ActorFrom(c), page.Limit, page.Offset)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "applications": apps})
}

// GetApplication handles GET /api/applications/:id
// @Summary Application details
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} object{success=bool,application=models.Application}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/applications/{id} [get]
func (s *Server) GetApplication(c *fiber.Ctx) error {
	app, err := s.applications.Get(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "application": app})
}

// ReviewApplication handles POST /api/applications/:id/status
// @Summary Accept or reject an application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body object{status=string,reviewReason=string} true "Decision"
// @Success 200 {object} object{success=bool,message=string,application=models.Application}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/applications/{id}/status [post]
func (s *Server) ReviewApplication(c *fiber.Ctx) error {
	var req struct {
		Status       string  `json:"status"`
		ReviewReason *string `json:"reviewReason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("Invalid request body"))
	}

	app, err := s.applications.Review(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), service.ReviewInput{
		Status: req.Status,
		Reason: req.ReviewReason,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Application status updated to " + string(app.Status) + ".",
		"application": app,
	})
}

// DeleteApplication handles DELETE /api/applications/:id
// @Summary Delete an application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/applications/{id} [delete]
func (s *Server) DeleteApplication(c *fiber.Ctx) error {
	if _, err := s.applications.Delete(c.UserContext(), middleware.ActorFrom(c), c.Params("id")); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Application deleted successfully."})
}
