package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"guildapply/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMiddleware_CORS(t *testing.T) {
	const frontend = "http://localhost:5173"

	tests := []struct {
		name        string
		method      string
		path        string
		origin      string
		preflight   bool
		status      int
		allowOrigin string
	}{
		{name: "credentialed session read", method: http.MethodGet, path: "/api/session", origin: frontend, status: fiber.StatusOK, allowOrigin: frontend},
		{name: "preflight for submit", method: http.MethodPost, path: "/api/apply", origin: frontend, preflight: true, status: fiber.StatusNoContent, allowOrigin: frontend},
		{name: "unknown origin not echoed", method: http.MethodGet, path: "/api/session", origin: "https://evil.example", status: fiber.StatusOK},
	}

	srv := &Server{config: &config.Config{AllowedOrigins: frontend}}
	app := fiber.New()
	srv.SetupMiddleware(app)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/api/session", ok)
	app.Post("/api/apply", ok)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.preflight {
				req = httptest.NewRequest(http.MethodOptions, tt.path, nil)
				req.Header.Set("Access-Control-Request-Method", tt.method)
				req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
			}
			req.Header.Set("Origin", tt.origin)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.allowOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.allowOrigin == "" {
				return
			}
			assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			if tt.preflight {
				assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), tt.method)
			}
		})
	}
}
