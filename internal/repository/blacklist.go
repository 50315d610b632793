package repository

import (
	"context"
	"errors"
	"log/slog"

	"guildapply/internal/models"
	"guildapply/internal/observability"

	"gorm.io/gorm"
)

// BlacklistRepository persists blacklist entries.
type BlacklistRepository interface {
	List(ctx context.Context) ([]models.BlacklistEntry, error)
	Get(ctx context.Context, externalID string) (*models.BlacklistEntry, error)
	Add(ctx context.Context, entry *models.BlacklistEntry) error
	Remove(ctx context.Context, externalID string) (*models.BlacklistEntry, error)
}

type blacklistRepository struct {
	db  *gorm.DB
	log *observability.WriteLog
}

// NewBlacklistRepository returns a new BlacklistRepository implementation.
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db, log: observability.NewWriteLog("blacklisted_users")}
}

func (r *blacklistRepository) List(ctx context.Context) ([]models.BlacklistEntry, error) {
	entries := []models.BlacklistEntry{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// Get returns the entry for externalID, or nil when the user is not blacklisted.
func (r *blacklistRepository) Get(ctx context.Context, externalID string) (*models.BlacklistEntry, error) {
	ctx, span := observability.StartQuery(ctx, "blacklisted_users", "get")
	defer span.End()

	var entry models.BlacklistEntry
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).Limit(1).Find(&entry).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if entry.ExternalID == "" {
		return nil, nil
	}
	return &entry, nil
}

func (r *blacklistRepository) Add(ctx context.Context, entry *models.BlacklistEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError(models.ReasonAlreadyExists, "User is already blacklisted.")
		}
		r.log.Failed(ctx, "create", err)
		return models.NewInternalError(err)
	}
	r.log.Wrote(ctx, "create",
		slog.String("external_id", entry.ExternalID),
		slog.String("blacklisted_by", entry.BlacklistedByExternalID),
	)
	return nil
}

func (r *blacklistRepository) Remove(ctx context.Context, externalID string) (*models.BlacklistEntry, error) {
	var removed models.BlacklistEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).First(&removed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundMessage("Blacklisted user not found.")
			}
			return err
		}
		return tx.Where("external_id = ?", externalID).Delete(&models.BlacklistEntry{}).Error
	})
	if err != nil {
		return nil, models.AsAppError(err)
	}
	r.log.Wrote(ctx, "delete", slog.String("external_id", externalID))
	return &removed, nil
}
