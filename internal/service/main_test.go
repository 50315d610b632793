package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"guildapply/internal/database"
	"guildapply/internal/featureflags"
	"guildapply/internal/models"
	"guildapply/internal/notifications"
	"guildapply/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, e notifications.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingNotifier) Events() []notifications.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Event(nil), r.events...)
}

type fixture struct {
	db        *gorm.DB
	admins    repository.RoleRepository
	mods      repository.RoleRepository
	apps      repository.ApplicationRepository
	banned    repository.BlacklistRepository
	notifier  *recordingNotifier
	access    *AccessService
	lifecycle *ApplicationService
	roles     *RoleService
}

func newFixture(t *testing.T, flags string) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		admins:   repository.NewRoleRepository(db, models.RoleAdmin),
		mods:     repository.NewRoleRepository(db, models.RoleModerator),
		apps:     repository.NewApplicationRepository(db),
		banned:   repository.NewBlacklistRepository(db),
		notifier: &recordingNotifier{},
	}
	f.access = NewAccessService(f.admins, f.mods)
	f.lifecycle = NewApplicationService(ApplicationServiceConfig{
		Applications:  f.apps,
		Blacklist:     f.banned,
		Flags:         featureflags.NewManager(flags),
		Notifier:      f.notifier,
		NotifyTimeout: time.Second,
	})
	f.roles = NewRoleService(f.admins, f.mods, f.banned)
	return f
}

func (f *fixture) grant(t *testing.T, kind models.RoleKind, id, name string) {
	t.Helper()
	repo := f.admins
	if kind == models.RoleModerator {
		repo = f.mods
	}
	require.NoError(t, repo.Add(context.Background(), &models.RoleAssignment{
		ExternalID:        id,
		DisplayName:       name,
		AddedByExternalID: "system",
	}))
}

func (f *fixture) actor(t *testing.T, id, name string) models.Actor {
	t.Helper()
	actor, err := f.access.Actor(context.Background(), &models.Identity{ExternalID: id, DisplayName: name})
	require.NoError(t, err)
	return actor
}

func assertAppError(t *testing.T, err error, code, reason string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	if reason != "" {
		assert.Equal(t, reason, appErr.Reason)
	}
}
