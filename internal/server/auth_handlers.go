package server

import (
	"errors"
	"time"

	"guildapply/internal/discord"
	"guildapply/internal/middleware"
	"guildapply/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DiscordLogin handles GET /auth/discord
// @Summary Start Discord login
// @Description Redirects to the Discord consent screen with a single-use state value
// @Tags auth
// @Success 302
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/discord [get]
func (s *Server) DiscordLogin(c *fiber.Ctx) error {
	state, err := s.states.New(c.UserContext())
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusFound)
}

// DiscordCallback handles GET /auth/discord/callback
// @Summary Complete Discord login
// @Description Exchanges the authorization code, issues a session cookie and redirects to the frontend
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by /auth/discord"
// @Success 302
// @Failure 400 {string} string
// @Failure 502 {string} string
// @Router /auth/discord/callback [get]
func (s *Server) DiscordCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Discord authentication failed: No code provided.")
	}

	ok, err := s.states.Consume(ctx, c.Query("state"))
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "oauth state lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Discord authentication failed.")
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("Discord authentication failed: Invalid state.")
	}

	identity, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "discord code exchange failed", "error", err)
		if errors.Is(err, discord.ErrExchangeFailed) {
			return c.Status(fiber.StatusBadGateway).SendString("Discord authentication failed. Please try again.")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Discord authentication failed.")
	}

	token, _, err := s.sessions.Issue(*identity)
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}

	s.setSessionCookie(c, token, s.sessions.TTL())
	middleware.Logger.InfoContext(ctx, "user logged in", "user_id", identity.ExternalID)
	return c.Redirect(s.config.FrontendRedirectPath, fiber.StatusFound)
}

// Logout handles GET|POST /auth/logout
// @Summary Log out
// @Description Revokes the current session and clears the cookie
// @Tags auth
// @Success 302
// @Router /auth/logout [get]
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := middleware.SessionToken(c); token != "" {
		if err := s.sessions.Revoke(c.UserContext(), token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session revoke failed", "error", err)
		}
	}
	if identity, ok := middleware.IdentityFrom(c); ok {
		middleware.Logger.InfoContext(c.UserContext(), "user logged out", "user_id", identity.ExternalID)
	}
	s.setSessionCookie(c, "", -time.Hour)
	return c.Redirect("/", fiber.StatusFound)
}

// GetSession handles GET /api/session
// @Summary Current session
// @Description Returns the logged-in user with freshly resolved role flags
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool,user=models.Actor}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    middleware.ActorFrom(c),
	})
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	c.Cookie(cookie)
}
