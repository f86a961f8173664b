package repository

import (
	"context"

	"github.com/dosewise/dosewise/internal/database"
	apperrors "github.com/dosewise/dosewise/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate gets an existing user or creates a new one
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	var user database.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)
	if result.Error == nil {
		return &user, nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return nil, apperrors.NewDatabaseError(result.Error)
	}

	user = database.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Mode:       "health",
		SleepBy:    "23:00",
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// GetByTelegramID gets a user by their Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*database.User, error) {
	var user database.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// UpdateSettings updates a single settings column for a user
func (r *UserRepository) UpdateSettings(ctx context.Context, userID uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error).WithContext("column", column)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
