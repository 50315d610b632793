// Package bootstrap wires the shared runtime (database, Redis, first admin)
// used by the server and the operator commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"guildapply/internal/cache"
	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/models"
	"guildapply/internal/repository"
	"guildapply/internal/validation"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SystemActor is recorded as the granter of roles created outside the API.
const SystemActor = "system"

// InitRuntime connects to DB (applying the configured schema policy) and
// Redis, then ensures the configured bootstrap admin exists.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := cache.ConnectOptional(ctx, cfg.RedisURL)

	if err := EnsureBootstrapAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return db, r, nil
}

// EnsureBootstrapAdmin adds BOOTSTRAP_ADMIN_DISCORD_ID to the admin set when
// configured. An existing row is left untouched.
func EnsureBootstrapAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || cfg.BootstrapAdminID == "" {
		return nil
	}
	if err := validation.ValidateExternalID(cfg.BootstrapAdminID); err != nil {
		return fmt.Errorf("BOOTSTRAP_ADMIN_DISCORD_ID: %w", err)
	}

	admins := repository.NewRoleRepository(db, models.RoleAdmin)
	err := admins.Add(ctx, &models.RoleAssignment{
		ExternalID:         cfg.BootstrapAdminID,
		DisplayName:        cfg.BootstrapAdminName,
		AddedByExternalID:  SystemActor,
		AddedByDisplayName: SystemActor,
	})
	switch {
	case err == nil:
		log.Printf("bootstrap admin %s (%s) added", cfg.BootstrapAdminName, cfg.BootstrapAdminID)
	case errors.Is(err, models.ErrAlreadyExists):
		// already present
	default:
		return err
	}
	return nil
}
