package repository

import (
	"context"
	"errors"
	"log/slog"

	"guildapply/internal/models"
	"guildapply/internal/observability"

	"gorm.io/gorm"
)

// RoleRepository persists one role set (admins or moderators).
type RoleRepository interface {
	Kind() models.RoleKind
	List(ctx context.Context) ([]models.RoleAssignment, error)
	Exists(ctx context.Context, externalID string) (bool, error)
	Add(ctx context.Context, assignment *models.RoleAssignment) error
	Remove(ctx context.Context, externalID string) (*models.RoleAssignment, error)
}

type roleRepository struct {
	db      *gorm.DB
	kind    models.RoleKind
	log     *observability.WriteLog
	metrics *observability.DatabaseMetrics
}

// NewRoleRepository returns the repository for the given role set.
func NewRoleRepository(db *gorm.DB, kind models.RoleKind) RoleRepository {
	return &roleRepository{
		db:      db,
		kind:    kind,
		log:     observability.NewWriteLog(kind.Table()),
		metrics: observability.NewDatabaseMetrics(kind.Table()),
	}
}

func (r *roleRepository) Kind() models.RoleKind {
	return r.kind
}

func (r *roleRepository) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.kind.Table())
}

func (r *roleRepository) List(ctx context.Context) ([]models.RoleAssignment, error) {
	defer r.metrics.TrackQuery("select")()

	items := []models.RoleAssignment{}
	if err := r.table(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *roleRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	ctx, span := observability.StartQuery(ctx, r.kind.Table(), "exists")
	defer span.End()
	defer r.metrics.TrackQuery("count")()

	var count int64
	if err := r.table(ctx).Where("external_id = ?", externalID).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *roleRepository) Add(ctx context.Context, assignment *models.RoleAssignment) error {
	defer r.metrics.TrackQuery("insert")()

	if err := r.table(ctx).Create(assignment).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError(models.ReasonAlreadyExists,
				"User is already "+r.kind.Noun()+".")
		}
		r.log.Failed(ctx, "create", err)
		return models.NewInternalError(err)
	}
	r.log.Wrote(ctx, "create",
		slog.String("external_id", assignment.ExternalID),
		slog.String("added_by", assignment.AddedByExternalID),
	)
	return nil
}

func (r *roleRepository) Remove(ctx context.Context, externalID string) (*models.RoleAssignment, error) {
	defer r.metrics.TrackQuery("delete")()

	var removed models.RoleAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(r.kind.Table()).Where("external_id = ?", externalID).First(&removed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundMessage(r.kind.Label() + " not found.")
			}
			return err
		}
		return tx.Table(r.kind.Table()).Where("external_id = ?", externalID).Delete(&models.RoleAssignment{}).Error
	})
	if err != nil {
		return nil, models.AsAppError(err)
	}
	r.log.Wrote(ctx, "delete", slog.String("external_id", externalID))
	return &removed, nil
}
