package database

import (
	"fmt"

	"guildapply/internal/models"

	"gorm.io/gorm"
)

// PendingApplicantIndex enforces at most one pending application per applicant.
const PendingApplicantIndex = "idx_applications_one_pending_per_applicant"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Application{},
		&models.BlacklistEntry{},
	}
}

// RoleKinds lists the role sets that share the RoleAssignment shape.
func RoleKinds() []models.RoleKind {
	return []models.RoleKind{models.RoleAdmin, models.RoleModerator}
}

// AutoMigrate creates every table and the partial pending index.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}
	for _, kind := range RoleKinds() {
		if err := db.Table(kind.Table()).AutoMigrate(&models.RoleAssignment{}); err != nil {
			return fmt.Errorf("migrate %s: %w", kind.Table(), err)
		}
	}
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS " + PendingApplicantIndex +
			" ON applications (applicant_external_id) WHERE status = 'pending'",
	).Error
}
