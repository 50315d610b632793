package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"guildapply/internal/models"
	"guildapply/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*models.Identity

func (s stubResolver) Resolve(_ context.Context, token string) (*models.Identity, string, error) {
	if identity, ok := s[token]; ok {
		return identity, "jti-" + token, nil
	}
	return nil, "", session.ErrInvalidSession
}

type stubRoles map[string]models.Roles

func (s stubRoles) ResolveRoles(_ context.Context, externalID string) (models.Roles, error) {
	return s[externalID], nil
}

func newAuthApp() *fiber.App {
	resolver := stubResolver{
		"user-token":  {ExternalID: "100", DisplayName: "user"},
		"mod-token":   {ExternalID: "200", DisplayName: "mod"},
		"admin-token": {ExternalID: "300", DisplayName: "admin"},
	}
	roles := stubRoles{
		"200": {IsModerator: true},
		"300": {IsAdmin: true, IsModerator: true},
	}

	app := fiber.New()
	echo := func(c *fiber.Ctx) error {
		identity, _ := IdentityFrom(c)
		return c.JSON(fiber.Map{"userID": c.Locals(LocalUserID), "username": identity.DisplayName})
	}
	app.Get("/me", SessionRequired(resolver), echo)
	app.Get("/mod", SessionRequired(resolver), RequireTier(roles, models.TierModerator), echo)
	app.Get("/admin", SessionRequired(resolver), RequireTier(roles, models.TierAdmin), echo)
	app.Get("/optional", SessionOptional(resolver), func(c *fiber.Ctx) error {
		_, ok := IdentityFrom(c)
		return c.JSON(fiber.Map{"loggedIn": ok})
	})
	return app
}

func TestSessionRequired(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name           string
		setup          func(*http.Request)
		expectedStatus int
		expectedUserID string
	}{
		{
			name:           "Bearer header",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Bearer user-token") },
			expectedStatus: http.StatusOK,
			expectedUserID: "100",
		},
		{
			name:           "Session cookie",
			setup:          func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "user-token"}) },
			expectedStatus: http.StatusOK,
			expectedUserID: "100",
		},
		{
			name:           "Missing credentials",
			setup:          func(*http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid format",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown token",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body["userID"])
			} else {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, models.CodeUnauthenticated, body.Code)
			}
		})
	}
}

func TestRequireTier(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		path           string
		token          string
		expectedStatus int
	}{
		{"/mod", "", http.StatusUnauthorized},
		{"/mod", "user-token", http.StatusForbidden},
		{"/mod", "mod-token", http.StatusOK},
		{"/mod", "admin-token", http.StatusOK},
		{"/admin", "user-token", http.StatusForbidden},
		{"/admin", "mod-token", http.StatusForbidden},
		{"/admin", "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusForbidden {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, models.ReasonInsufficientTier, body.Reason)
			}
		})
	}
}

func TestSessionOptional(t *testing.T) {
	app := newAuthApp()

	for token, want := range map[string]bool{"": false, "bogus": false, "user-token": true} {
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want, body["loggedIn"], token)
	}
}

func TestSessionRequired_RevocationStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewManager("test-secret-test-secret-test-secret", time.Hour, rdb)

	token, _, err := sessions.Issue(models.Identity{ExternalID: "100", DisplayName: "user"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", SessionRequired(sessions), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get())

	// A valid token stays authenticated; the failed lookup is an internal error.
	mr.Close()
	assert.Equal(t, http.StatusInternalServerError, get())
}
