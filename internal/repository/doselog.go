package repository

import (
	"context"
	"time"

	"github.com/dosewise/dosewise/internal/database"
	apperrors "github.com/dosewise/dosewise/internal/errors"
	"gorm.io/gorm"
)

// DoseLogRepository handles dose log data operations
type DoseLogRepository struct {
	db *gorm.DB
}

// NewDoseLogRepository creates a new dose log repository
func NewDoseLogRepository(db *gorm.DB) *DoseLogRepository {
	return &DoseLogRepository{db: db}
}

// Create stores a new dose log
func (r *DoseLogRepository) Create(ctx context.Context, log *database.DoseLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListSince returns a user's dose logs at or after the given time, oldest first
func (r *DoseLogRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]database.DoseLog, error) {
	var logs []database.DoseLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ?", userID, since).
		Order("logged_at ASC").
		Find(&logs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return logs, nil
}

// DeleteLast removes a user's most recent dose log (undo)
func (r *DoseLogRepository) DeleteLast(ctx context.Context, userID uint) error {
	var last database.DoseLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		First(&last).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.New(apperrors.ErrorTypeNotFound, "DOSE_NOT_FOUND", "No dose log to undo")
		}
		return apperrors.NewDatabaseError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&last).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
