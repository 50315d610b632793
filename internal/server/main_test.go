package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"guildapply/internal/catalog"
	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/discord"
	"guildapply/internal/middleware"
	"guildapply/internal/models"
	"guildapply/internal/notifications"
	"guildapply/internal/repository"
	"guildapply/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminID     = "1000000000000000001"
	moderatorID = "1000000000000000002"
	applicantID = "1000000000000000003"
)

var dbSeq atomic.Int64

type stubOAuth struct {
	identity *models.Identity
	err      error
}

func (s *stubOAuth) AuthCodeURL(state string) string {
	return "https://discord.com/oauth2/authorize?client_id=test&state=" + state
}

func (s *stubOAuth) Exchange(_ context.Context, code string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if code != "good-code" {
		return nil, fmt.Errorf("%w: invalid code", discord.ErrExchangeFailed)
	}
	return s.identity, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e notifications.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) Events() []notifications.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Event(nil), r.events...)
}

type testServer struct {
	srv      *Server
	app      *fiber.App
	db       *gorm.DB
	mr       *miniredis.Miniredis
	oauth    *stubOAuth
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	dsn := fmt.Sprintf("file:srv_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	rdb, mr := testutil.NewRedis(t)

	cfg := &config.Config{
		Port:                 "0",
		Env:                  "test",
		SessionSecret:        "test-secret-key-12345678901234567890123456789012",
		SessionTTLHours:      24,
		NotifyTimeoutSeconds: 1,
		FrontendRedirectPath: "/apply.html",
		AllowedOrigins:       "http://localhost:5173",
	}

	ts := &testServer{
		db:       db,
		mr:       mr,
		oauth:    &stubOAuth{identity: &models.Identity{ExternalID: applicantID, DisplayName: "applicant"}},
		notifier: &recordingNotifier{},
	}
	ts.srv, err = NewServerWithDeps(cfg, db, rdb,
		WithOAuthProvider(ts.oauth),
		WithNotifier(ts.notifier),
		WithCatalog(catalog.Default()),
	)
	require.NoError(t, err)
	ts.app = ts.srv.App()
	return ts
}

func (ts *testServer) grant(t *testing.T, kind models.RoleKind, id, name string) {
	t.Helper()
	require.NoError(t, repository.NewRoleRepository(ts.db, kind).Add(context.Background(), &models.RoleAssignment{
		ExternalID:        id,
		DisplayName:       name,
		AddedByExternalID: "system",
	}))
}

// login issues a session token for id directly, skipping the OAuth round trip.
func (ts *testServer) login(t *testing.T, id, name string) string {
	t.Helper()
	token, _, err := ts.srv.sessions.Issue(models.Identity{ExternalID: id, DisplayName: name})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func generalAnswers() map[string]string {
	return map[string]string{
		"experience": "5 years",
		"why_us":     "passion",
	}
}
