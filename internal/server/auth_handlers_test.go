package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"guildapply/internal/cache"
	"guildapply/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestDiscordLogin_RedirectsWithState(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/auth/discord", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	assert.True(t, ts.mr.Exists(cache.OAuthStateKey(state)))
}

func TestDiscordCallback(t *testing.T) {
	tests := []struct {
		name     string
		query    func(state string) string
		status   int
		contains string
	}{
		{
			name:     "missing code",
			query:    func(state string) string { return "?state=" + state },
			status:   http.StatusBadRequest,
			contains: "Discord authentication failed: No code provided.",
		},
		{
			name:     "unknown state",
			query:    func(string) string { return "?code=good-code&state=forged" },
			status:   http.StatusBadRequest,
			contains: "Invalid state",
		},
		{
			name:     "exchange rejected",
			query:    func(state string) string { return "?code=bad-code&state=" + state },
			status:   http.StatusBadGateway,
			contains: "Discord authentication failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			state, err := ts.srv.states.New(t.Context())
			require.NoError(t, err)

			resp := ts.do(t, http.MethodGet, "/auth/discord/callback"+tt.query(state), "", nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.contains)
			assert.Nil(t, sessionCookie(resp))
		})
	}
}

func TestDiscordCallback_UnexpectedExchangeError(t *testing.T) {
	ts := newTestServer(t)
	ts.oauth.err = errors.New("boom")
	state, err := ts.srv.states.New(t.Context())
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/auth/discord/callback?code=good-code&state="+state, "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestLoginSessionLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.grant(t, "moderator", applicantID, "applicant")

	state, err := ts.srv.states.New(t.Context())
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/auth/discord/callback?code=good-code&state="+state, "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/apply.html", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 24*60*60, cookie.MaxAge)
	assert.False(t, ts.mr.Exists(cache.OAuthStateKey(state)), "state must be single use")

	// Replaying the same state fails.
	replay := ts.do(t, http.MethodGet, "/auth/discord/callback?code=good-code&state="+state, "", nil)
	assert.Equal(t, http.StatusBadRequest, replay.StatusCode)

	sessionResp := ts.do(t, http.MethodGet, "/api/session", cookie.Value, nil)
	require.Equal(t, http.StatusOK, sessionResp.StatusCode)
	body := decode(t, sessionResp)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, applicantID, user["id"])
	assert.Equal(t, "applicant", user["username"])
	assert.Nil(t, user["avatar"])
	assert.Equal(t, false, user["isAdmin"])
	assert.Equal(t, true, user["isModerator"])

	logout := ts.do(t, http.MethodGet, "/auth/logout", cookie.Value, nil)
	assert.Equal(t, http.StatusFound, logout.StatusCode)
	assert.Equal(t, "/", logout.Header.Get("Location"))
	cleared := sessionCookie(logout)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	after := ts.do(t, http.MethodGet, "/api/session", cookie.Value, nil)
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestSession_RolesReflectCurrentState(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, applicantID, "applicant")

	body := decode(t, ts.do(t, http.MethodGet, "/api/session", token, nil))
	assert.Equal(t, false, body["user"].(map[string]interface{})["isAdmin"])

	ts.grant(t, "admin", applicantID, "applicant")

	body = decode(t, ts.do(t, http.MethodGet, "/api/session", token, nil))
	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["isAdmin"])
	assert.Equal(t, true, user["isModerator"])
}

func TestSession_BearerToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, applicantID, "applicant")

	req, err := http.NewRequest(http.MethodGet, "/api/session", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSession_RequiresLogin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/session", "/api/my-applications", "/api/applications", "/api/admins"} {
		t.Run(strings.TrimPrefix(path, "/api/"), func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body := decode(t, resp)
			assert.Equal(t, "Unauthorized: Please log in.", body["message"])
			assert.Equal(t, false, body["success"])
		})
	}
}
