package repository

import (
	"context"

	"github.com/dosewise/dosewise/internal/database"
	apperrors "github.com/dosewise/dosewise/internal/errors"
	"gorm.io/gorm"
)

// ProfileRepository handles health profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new health profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID returns the user's health profile, or nil when none exists
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*database.HealthProfile, error) {
	var profile database.HealthProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &profile, nil
}

// Upsert creates the profile row if missing, then applies the column updates
func (r *ProfileRepository) Upsert(ctx context.Context, userID uint, updates map[string]interface{}) error {
	var profile database.HealthProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = database.HealthProfile{UserID: userID}
		if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
	} else if err != nil {
		return apperrors.NewDatabaseError(err)
	}

	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
