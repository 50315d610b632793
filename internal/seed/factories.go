// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"guildapply/internal/catalog"
	"guildapply/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db      *gorm.DB
	opts    Options
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	c := opts.Catalog
	if c == nil {
		c = catalog.Default()
	}
	return &Factory{db: db, opts: opts, catalog: c, rng: rand.New(rand.NewSource(seed))}
}

// Snowflake returns a plausible Discord user id.
func (f *Factory) Snowflake() string {
	// 2015-01-01 is the Discord epoch; ids carry milliseconds since then in the top bits.
	ms := f.rng.Int63n(int64(9 * 365 * 24 * time.Hour / time.Millisecond))
	return fmt.Sprintf("%d", ms<<22|f.rng.Int63n(1<<22))
}

// BuildIdentity returns a fake Discord user.
func (f *Factory) BuildIdentity() models.Identity {
	identity := models.Identity{
		ExternalID:  f.Snowflake(),
		DisplayName: strings.ToLower(gofakeit.Username()),
	}
	if f.rng.Intn(3) > 0 {
		avatar := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", identity.ExternalID, strings.ReplaceAll(gofakeit.UUID(), "-", ""))
		identity.AvatarURL = &avatar
	}
	return identity
}

// submittedAt spreads timestamps over the last MaxDays days.
func (f *Factory) submittedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().UTC().Add(-back)
}

// BuildAnswers fills every question of the template with fake text.
func (f *Factory) BuildAnswers(applicationType string) map[string]string {
	tmpl, ok := f.catalog.Lookup(applicationType)
	if !ok {
		return map[string]string{}
	}
	answers := make(map[string]string, len(tmpl.Questions))
	for _, q := range tmpl.Questions {
		switch q.Type {
		case "text":
			answers[q.ID] = gofakeit.Sentence(4)
		default:
			answers[q.ID] = gofakeit.Paragraph(1, 3, 8, " ")
		}
	}
	return answers
}

// BuildApplication constructs a pending application without persisting it.
func (f *Factory) BuildApplication(applicant models.Identity, applicationType string, overrides ...func(*models.Application)) *models.Application {
	app := &models.Application{
		ApplicantExternalID: applicant.ExternalID,
		ApplicantName:       applicant.DisplayName,
		ApplicantAvatarURL:  applicant.AvatarURL,
		ApplicationType:     applicationType,
		Answers:             f.BuildAnswers(applicationType),
		Status:              models.ApplicationStatusPending,
		SubmittedAt:         f.submittedAt(),
	}
	for _, override := range overrides {
		override(app)
	}
	return app
}

// Reviewed marks an application as decided by reviewer.
func Reviewed(status models.ApplicationStatus, reviewer models.Identity, reason *string) func(*models.Application) {
	return func(app *models.Application) {
		reviewedAt := app.SubmittedAt.Add(time.Duration(rand.Intn(72)+1) * time.Hour)
		if now := time.Now().UTC(); reviewedAt.After(now) {
			reviewedAt = now
		}
		app.Status = status
		app.ReviewerExternalID = &reviewer.ExternalID
		app.ReviewerName = &reviewer.DisplayName
		app.ReviewedAt = &reviewedAt
		app.ReviewReason = reason
	}
}

// CreateApplication builds and persists an application.
func (f *Factory) CreateApplication(applicant models.Identity, applicationType string, overrides ...func(*models.Application)) (*models.Application, error) {
	app := f.BuildApplication(applicant, applicationType, overrides...)
	if f.opts.DryRun || f.db == nil {
		return app, nil
	}
	if err := f.db.Create(app).Error; err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// CreateRole adds identity to the admin or moderator set.
func (f *Factory) CreateRole(kind models.RoleKind, identity models.Identity, addedBy models.Identity) (*models.RoleAssignment, error) {
	assignment := &models.RoleAssignment{
		ExternalID:         identity.ExternalID,
		DisplayName:        identity.DisplayName,
		AddedByExternalID:  addedBy.ExternalID,
		AddedByDisplayName: addedBy.DisplayName,
		CreatedAt:          f.submittedAt(),
	}
	if f.opts.DryRun || f.db == nil {
		return assignment, nil
	}
	if err := f.db.Table(kind.Table()).Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return assignment, nil
}

// CreateBlacklistEntry blacklists identity with a fake reason.
func (f *Factory) CreateBlacklistEntry(identity models.Identity, by models.Identity) (*models.BlacklistEntry, error) {
	entry := &models.BlacklistEntry{
		ExternalID:               identity.ExternalID,
		DisplayName:              identity.DisplayName,
		BlacklistedByExternalID:  by.ExternalID,
		BlacklistedByDisplayName: by.DisplayName,
		CreatedAt:                f.submittedAt(),
	}
	if f.rng.Intn(4) > 0 {
		reason := gofakeit.Sentence(6)
		entry.Reason = &reason
	}
	if f.opts.DryRun || f.db == nil {
		return entry, nil
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create blacklist entry: %w", err)
	}
	return entry, nil
}
