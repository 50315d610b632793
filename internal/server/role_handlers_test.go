package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"guildapply/internal/featureflags"
	"guildapply/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleEndpoints_RequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, models.RoleModerator, moderatorID, "M1")
	moderator := ts.login(t, moderatorID, "M1")

	for _, path := range []string{"/api/admins", "/api/moderators", "/api/blacklist", "/api/feature-flags"} {
		t.Run(path, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, path, moderator, nil)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, models.ReasonInsufficientTier, decode(t, resp)["reason"])
		})
	}
}

func TestModeratorGrant_TakesEffectImmediately(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, models.RoleAdmin, adminID, "A1")
	admin := ts.login(t, adminID, "A1")
	user := ts.login(t, applicantID, "U1")

	resp := ts.do(t, http.MethodGet, "/api/applications", user, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/moderators", admin, fiberMap{"discordId": applicantID, "username": "U1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Moderator added successfully!", body["message"])
	added := body["moderator"].(map[string]interface{})
	assert.Equal(t, adminID, added["addedByDiscordId"])

	resp = ts.do(t, http.MethodGet, "/api/applications", user, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/moderators", admin, fiberMap{"discordId": applicantID, "username": "U1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User is already a moderator.", decode(t, resp)["message"])

	resp = ts.do(t, http.MethodGet, "/api/moderators", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, resp)["moderators"], 1)

	resp = ts.do(t, http.MethodDelete, "/api/moderators/"+applicantID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Moderator removed successfully!", decode(t, resp)["message"])

	resp = ts.do(t, http.MethodGet, "/api/applications", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, models.RoleAdmin, adminID, "A1")
	admin := ts.login(t, adminID, "A1")

	resp := ts.do(t, http.MethodDelete, "/api/admins/"+adminID, admin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "You cannot remove yourself as an admin.", body["message"])
	assert.Equal(t, models.ReasonSelfRemoval, body["reason"])

	resp = ts.do(t, http.MethodPost, "/api/admins", admin, fiberMap{"discordId": applicantID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Discord ID and username are required.", decode(t, resp)["message"])

	resp = ts.do(t, http.MethodPost, "/api/admins", admin, fiberMap{"discordId": applicantID, "username": "U1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Admin added successfully!", decode(t, resp)["message"])

	// The new admin is also a moderator without a moderator row.
	body = decode(t, ts.do(t, http.MethodGet, "/api/session", ts.login(t, applicantID, "U1"), nil))
	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["isAdmin"])
	assert.Equal(t, true, user["isModerator"])

	resp = ts.do(t, http.MethodGet, "/api/admins", admin, nil)
	assert.Len(t, decode(t, resp)["admins"], 2)

	resp = ts.do(t, http.MethodDelete, "/api/admins/"+applicantID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Admin removed successfully!", decode(t, resp)["message"])

	resp = ts.do(t, http.MethodDelete, "/api/admins/"+applicantID, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Admin not found.", decode(t, resp)["message"])
}

func TestBlacklistEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, models.RoleAdmin, adminID, "A1")
	admin := ts.login(t, adminID, "A1")

	resp := ts.do(t, http.MethodPost, "/api/blacklist", admin, fiberMap{"discordId": applicantID, "username": "U1", "reason": "  "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "User blacklisted successfully!", body["message"])
	entry := body["blacklistedUser"].(map[string]interface{})
	assert.Nil(t, entry["reason"])
	assert.Equal(t, adminID, entry["blacklistedByDiscordId"])

	resp = ts.do(t, http.MethodPost, "/api/blacklist", admin, fiberMap{"discordId": applicantID, "username": "U1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/apply", ts.login(t, applicantID, "U1"), fiberMap{
		"applicationType": "general",
		"answers":         generalAnswers(),
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["message"], "No reason provided.")

	resp = ts.do(t, http.MethodGet, "/api/blacklist", admin, nil)
	assert.Len(t, decode(t, resp)["blacklistedUsers"], 1)

	resp = ts.do(t, http.MethodDelete, "/api/blacklist/"+applicantID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User removed from blacklist successfully!", decode(t, resp)["message"])

	resp = ts.do(t, http.MethodDelete, "/api/blacklist/"+applicantID, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blacklisted user not found.", decode(t, resp)["message"])
}

func TestFeatureFlags_Admin(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, models.RoleAdmin, adminID, "A1")

	resp := ts.do(t, http.MethodGet, "/api/feature-flags", ts.login(t, adminID, "A1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Flags []featureflags.FlagState `json:"flags"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Flags)
	assert.Equal(t, featureflags.StrictAnswers, body.Flags[0].Name)
}
