package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"guildapply/internal/config"
	"guildapply/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock with ping monitoring.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		stopRdb  bool
		status   int
		database string
		redis    string
	}{
		{name: "healthy", status: http.StatusOK, database: "healthy", redis: "healthy"},
		{name: "database down", pingErr: errors.New("connection refused"), status: http.StatusServiceUnavailable, database: "unhealthy", redis: "healthy"},
		{name: "redis down", stopRdb: true, status: http.StatusServiceUnavailable, database: "healthy", redis: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)
			rdb, mr := testutil.NewRedis(t)
			if tt.stopRdb {
				mr.SetError("LOADING redis is loading the dataset")
			}

			ping := mock.ExpectPing()
			if tt.pingErr != nil {
				ping.WillReturnError(tt.pingErr)
			}

			s := &Server{config: &config.Config{}, db: gormDB, redis: rdb}
			app := fiber.New()
			app.Get("/health/ready", s.ReadinessCheck)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode(t, resp)
			checks := body["checks"].(map[string]interface{})
			assert.Equal(t, tt.database, checks["database"])
			assert.Equal(t, tt.redis, checks["redis"])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
