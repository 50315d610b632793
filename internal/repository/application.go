package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"guildapply/internal/models"
	"guildapply/internal/observability"

	"gorm.io/gorm"
)

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	HasPending(ctx context.Context, applicantExternalID string) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantExternalID string) ([]models.Application, error)
	Review(ctx context.Context, id string, decision ReviewDecision) (*models.Application, error)
	Delete(ctx context.Context, id string) (*models.Application, error)
}

// ReviewDecision is the single-shot transition out of pending.
type ReviewDecision struct {
	Status       models.ApplicationStatus
	ReviewerID   string
	ReviewerName string
	ReviewedAt   time.Time
	Reason       *string
}

type applicationRepository struct {
	db      *gorm.DB
	log     *observability.WriteLog
	metrics *observability.DatabaseMetrics
}

// NewApplicationRepository returns a new ApplicationRepository implementation.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{
		db:      db,
		log:     observability.NewWriteLog("applications"),
		metrics: observability.NewDatabaseMetrics("applications"),
	}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	ctx, span := observability.StartQuery(ctx, "applications", "create")
	defer span.End()
	defer r.metrics.TrackQuery("insert")()

	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError(models.ReasonDuplicatePending,
				"You already have a pending application. Please wait for it to be reviewed before submitting another.")
		}
		r.log.Failed(ctx, "create", err)
		return models.NewInternalError(err)
	}
	r.log.Wrote(ctx, "create",
		slog.String("application_id", app.ID),
		slog.String("applicant_id", app.ApplicantExternalID),
		slog.String("type", app.ApplicationType),
	)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	ctx, span := observability.StartQuery(ctx, "applications", "getByID")
	defer span.End()
	defer r.metrics.TrackQuery("select")()

	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessage("Application not found.")
		}
		return nil, models.NewInternalError(err)
	}
	return &app, nil
}

func (r *applicationRepository) HasPending(ctx context.Context, applicantExternalID string) (bool, error) {
	defer r.metrics.TrackQuery("count")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("applicant_external_id = ? AND status = ?", applicantExternalID, models.ApplicationStatusPending).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListPending returns pending applications oldest first; limit <= 0 means unbounded.
func (r *applicationRepository) ListPending(ctx context.Context, limit, offset int) ([]models.Application, error) {
	ctx, span := observability.StartQuery(ctx, "applications", "listPending")
	defer span.End()
	defer r.metrics.TrackQuery("select")()

	limit, offset = clampPage(limit, offset)
	q := r.db.WithContext(ctx).
		Where("status = ?", models.ApplicationStatusPending).
		Order("submitted_at ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	apps := []models.Application{}
	if err := q.Find(&apps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantExternalID string) ([]models.Application, error) {
	ctx, span := observability.StartQuery(ctx, "applications", "listByApplicant")
	defer span.End()
	defer r.metrics.TrackQuery("select")()

	apps := []models.Application{}
	err := r.db.WithContext(ctx).
		Where("applicant_external_id = ?", applicantExternalID).
		Order("submitted_at DESC").Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}

// Review applies decision only while the row is still pending.
func (r *applicationRepository) Review(ctx context.Context, id string, decision ReviewDecision) (*models.Application, error) {
	ctx, span := observability.StartQuery(ctx, "applications", "review")
	defer span.End()
	defer r.metrics.TrackQuery("update")()

	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":               decision.Status,
			"reviewer_external_id": decision.ReviewerID,
			"reviewer_name":        decision.ReviewerName,
			"reviewed_at":          decision.ReviewedAt,
			"review_reason":        decision.Reason,
		})
	if res.Error != nil {
		r.log.Failed(ctx, "review", res.Error)
		return nil, models.NewInternalError(res.Error)
	}

	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, models.NewConflictError(models.ReasonAlreadyReviewed,
			"This application has already been "+string(app.Status)+".")
	}

	r.log.Wrote(ctx, "review",
		slog.String("application_id", id),
		slog.String("status", string(decision.Status)),
		slog.String("reviewer_id", decision.ReviewerID),
	)
	return app, nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) (*models.Application, error) {
	ctx, span := observability.StartQuery(ctx, "applications", "delete")
	defer span.End()
	defer r.metrics.TrackQuery("delete")()

	var deleted *models.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Where("id = ?", id).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundMessage("Application not found.")
			}
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		deleted = &app
		return nil
	})
	if err != nil {
		return nil, models.AsAppError(err)
	}

	r.log.Wrote(ctx, "delete", slog.String("application_id", id))
	return deleted, nil
}
