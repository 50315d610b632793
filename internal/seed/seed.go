package seed

import (
	"fmt"
	"log"

	"guildapply/internal/catalog"
	"guildapply/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumApplicants  int
	NumModerators  int
	NumBlacklisted int
	// ReviewedRatio is the share of applications that already carry a decision.
	ReviewedRatio float64
	MaxDays       int
	ShouldClean   bool
	DryRun        bool
	RandomSeed    int64
	Catalog       *catalog.Catalog
}

// Summary counts what a Seed run created.
type Summary struct {
	Admins       int
	Moderators   int
	Blacklisted  int
	Applications map[models.ApplicationStatus]int
}

// Seed fills the database with a reviewer team, applicants and their
// applications. Every applicant gets at most one pending application.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.NumApplicants <= 0 {
		opts.NumApplicants = 25
	}
	if opts.ReviewedRatio < 0 || opts.ReviewedRatio > 1 {
		opts.ReviewedRatio = 0.5
	}

	log.Printf("🌱 Seeding %d applicants, %d moderators, %d blacklisted users...",
		opts.NumApplicants, opts.NumModerators, opts.NumBlacklisted)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	summary := &Summary{Applications: map[models.ApplicationStatus]int{}}
	system := models.Identity{ExternalID: "system", DisplayName: "system"}

	admin := f.BuildIdentity()
	if _, err := f.CreateRole(models.RoleAdmin, admin, system); err != nil {
		return nil, err
	}
	summary.Admins++

	for i := 0; i < opts.NumModerators; i++ {
		if _, err := f.CreateRole(models.RoleModerator, f.BuildIdentity(), admin); err != nil {
			return nil, err
		}
		summary.Moderators++
	}

	for i := 0; i < opts.NumBlacklisted; i++ {
		if _, err := f.CreateBlacklistEntry(f.BuildIdentity(), admin); err != nil {
			return nil, err
		}
		summary.Blacklisted++
	}

	keys := f.catalog.Keys()
	for i := 0; i < opts.NumApplicants; i++ {
		applicant := f.BuildIdentity()
		appType := keys[f.rng.Intn(len(keys))]

		var overrides []func(*models.Application)
		if f.rng.Float64() < opts.ReviewedRatio {
			status := models.ApplicationStatusAccepted
			if f.rng.Intn(2) == 0 {
				status = models.ApplicationStatusRejected
			}
			var reason *string
			if f.rng.Intn(2) == 0 {
				r := gofakeit.Sentence(5)
				reason = &r
			}
			overrides = append(overrides, Reviewed(status, admin, reason))
		}

		app, err := f.CreateApplication(applicant, appType, overrides...)
		if err != nil {
			return nil, err
		}
		summary.Applications[app.Status]++
	}

	log.Printf("🎉 Seeded %d applications (%d pending)", opts.NumApplicants, summary.Applications[models.ApplicationStatusPending])
	return summary, nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE applications, admins, moderators, blacklisted_users;`).Error
	}
	for _, table := range []string{"applications", "admins", "moderators", "blacklisted_users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
