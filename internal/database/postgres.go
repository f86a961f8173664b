package database

import (
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID        int64 `gorm:"uniqueIndex"`
	Username          string
	FirstName         string
	LastName          string
	Mode              string `gorm:"default:health"` // "health" or "productivity"
	SleepBy           string `gorm:"default:23:00"`  // Format: "HH:MM"
	EnabledSubstances string `gorm:"default:caffeine"`
}

type DoseLog struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	User      User
	Substance string
	AmountMg  *float64 // nil means "default dose for the substance"
	LoggedAt  time.Time `gorm:"index"`
	Source    string    // "manual" or "ai"
	Note      string
}

type HealthProfile struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex"`
	User          User
	WeightKg      *float64
	HeightCm      *float64
	Allergies     string // free text, comma/semicolon-delimited
	Medications   string // free text
	Sex           string
	SmokingStatus string
	BirthYear     *int
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &DoseLog{}, &HealthProfile{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}
