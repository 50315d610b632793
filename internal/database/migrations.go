package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"guildapply/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned up/down SQL pair.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// ID is the file stem, e.g. 000001_init_schema.
func (m Migration) ID() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var upFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.up\.sql$`)

// LoadMigrations reads NNNNNN_name.up.sql files and their .down.sql partners
// from dir. Every up script needs a down script and versions must be unique.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		match := upFile.FindStringSubmatch(name)
		if match == nil {
			return nil, fmt.Errorf("migration %s: want NNNNNN_name.up.sql", name)
		}
		version, _ := strconv.Atoi(match[1])
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by %s and %s", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		downName := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		down, err := fs.ReadFile(fsys, path.Join(dir, downName))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no %s: %w", name, downName, err)
		}
		out = append(out, Migration{Version: version, Name: match[2], Up: string(up), Down: string(down)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	return out, nil
}

// Migrations returns the schema history compiled into the binary.
var Migrations = sync.OnceValue(func() []Migration {
	set, err := LoadMigrations(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return set
})

// schemaVersion is one row of the applied-migrations ledger.
type schemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaVersion) TableName() string { return "schema_versions" }

// Migrator applies and reverts a migration set, recording progress in
// schema_versions. Each step runs in its own transaction.
type Migrator struct {
	db  *gorm.DB
	set []Migration
}

func NewMigrator(db *gorm.DB, set []Migration) *Migrator {
	return &Migrator{db: db, set: set}
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaVersion{}); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}
	return nil
}

// Applied returns applied versions in ascending order.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	if err := m.ensureLedger(ctx); err != nil {
		return nil, err
	}
	var versions []int
	if err := m.db.WithContext(ctx).Model(&schemaVersion{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("list schema_versions: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations not yet applied. It fails when the database
// records a version this binary does not know about.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKnown(applied, m.set); err != nil {
		return nil, err
	}
	var pending []Migration
	for _, mig := range m.set {
		if !slices.Contains(applied, mig.Version) {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}
	for i, mig := range pending {
		middleware.Logger.InfoContext(ctx, "applying migration", slog.String("migration", mig.ID()))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&schemaVersion{Version: mig.Version, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return i, fmt.Errorf("apply %s: %w", mig.ID(), err)
		}
	}
	return len(pending), nil
}

// Down reverts one applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	idx := slices.IndexFunc(m.set, func(mig Migration) bool { return mig.Version == version })
	if idx < 0 {
		return fmt.Errorf("migration version %d not found", version)
	}
	mig := m.set[idx]

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %s has not been applied", mig.ID())
	}

	middleware.Logger.InfoContext(ctx, "reverting migration", slog.String("migration", mig.ID()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return fmt.Errorf("revert %s: %w", mig.ID(), err)
		}
		return tx.Where("version = ?", version).Delete(&schemaVersion{}).Error
	})
}

func checkKnown(applied []int, set []Migration) error {
	var unknown []string
	for _, version := range applied {
		if !slices.ContainsFunc(set, func(mig Migration) bool { return mig.Version == version }) {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("schema_versions lists versions this build does not ship: %s", strings.Join(unknown, ", "))
	}
	return nil
}
