package interfaces

import (
	"context"
	"time"

	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error)
	SetMode(ctx context.Context, userID uint, mode engine.Mode) error
	SetSleepBy(ctx context.Context, userID uint, sleepBy string) error
	ToggleSubstance(ctx context.Context, user *database.User, substance engine.Substance) ([]engine.Substance, error)
}

// DoseServiceInterface defines the contract for dose log operations
type DoseServiceInterface interface {
	LogDose(ctx context.Context, userID uint, substance engine.Substance, amountMg *float64, at time.Time, source, note string) (*database.DoseLog, error)
	UndoLast(ctx context.Context, userID uint) error
}

// ProfileServiceInterface defines the contract for health profile operations
type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uint) (*engine.HealthProfile, error)
	SetWeight(ctx context.Context, userID uint, weightKg float64) error
	SetSex(ctx context.Context, userID uint, sex string) error
	SetSmokingStatus(ctx context.Context, userID uint, status string) error
	SetBirthYear(ctx context.Context, userID uint, year int) error
	SetAllergies(ctx context.Context, userID uint, allergies string) error
	SetMedications(ctx context.Context, userID uint, medications string) error
}

// RecommendationServiceInterface defines the contract for recommendation operations
type RecommendationServiceInterface interface {
	Status(ctx context.Context, user *database.User, now time.Time) (*services.StatusReport, error)
	NextDoseWindows(ctx context.Context, user *database.User, now time.Time) ([]engine.NextDoseWindow, error)
	Cutoffs(ctx context.Context, user *database.User, now time.Time) ([]engine.CutoffResult, error)
	SleepReadiness(ctx context.Context, user *database.User, now time.Time) (engine.SleepReadinessResult, error)
	PeakPlan(ctx context.Context, user *database.User, now, peakAt time.Time) ([]engine.DoseForPeakSuggestion, error)
}

// AIServiceInterface defines the contract for AI operations
type AIServiceInterface interface {
	ParseDoseText(ctx context.Context, text string, useOpenAI bool) (*services.DoseParseResult, error)
}
