package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"guildapply/internal/config"
	"guildapply/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// schemaPlan is what ApplySchema will do for a given config.
type schemaPlan struct {
	Mode    string
	RunSQL  bool
	RunAuto bool
}

func planSchema(cfg *config.Config) (schemaPlan, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		mode = SchemaModeHybrid
	}
	env := strings.ToLower(strings.TrimSpace(cfg.Env))
	shared := env == "production" || env == "prod" || env == "staging" || env == "stage"

	plan := schemaPlan{Mode: mode}
	switch mode {
	case SchemaModeSQL:
		plan.RunSQL = true
	case SchemaModeHybrid:
		// AutoMigrate only fills gaps on developer databases.
		plan.RunSQL, plan.RunAuto = true, !shared
	case SchemaModeAuto:
		if shared && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.RunAuto = true
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
	return plan, nil
}

// ApplySchema brings the applications, role and blacklist tables up to date
// according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.RunSQL {
		n, err := NewMigrator(db, Migrations()).Up(ctx)
		if err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "sql migrations complete", slog.Int("applied", n))
	}

	if plan.RunAuto {
		if plan.Mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.WarnContext(ctx, "AutoMigrate enabled for a shared environment", slog.String("env", cfg.Env))
		}
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// SchemaStatus reports the schema plan and migration ledger.
type SchemaStatus struct {
	Mode        string
	Environment string
	RunSQL      bool
	RunAuto     bool
	Applied     []int
	Pending     []Migration
}

// GetSchemaStatus reports what ApplySchema would do without changing anything
// beyond creating the ledger table.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{Mode: plan.Mode, Environment: cfg.Env, RunSQL: plan.RunSQL, RunAuto: plan.RunAuto}
	if !plan.RunSQL {
		return status, nil
	}

	migrator := NewMigrator(db, Migrations())
	if status.Applied, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
