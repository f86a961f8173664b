package services

import (
	"context"

	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/repository"
)

type ProfileService struct {
	profiles *repository.ProfileRepository
}

func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the user's profile as the engine's value type, or nil when the
// user has not filled one in. The engine treats nil as "no personalization".
func (s *ProfileService) Get(ctx context.Context, userID uint) (*engine.HealthProfile, error) {
	record, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return &engine.HealthProfile{
		WeightKg:      record.WeightKg,
		HeightCm:      record.HeightCm,
		Allergies:     record.Allergies,
		Medications:   record.Medications,
		Sex:           record.Sex,
		SmokingStatus: record.SmokingStatus,
		BirthYear:     record.BirthYear,
	}, nil
}

func (s *ProfileService) SetWeight(ctx context.Context, userID uint, weightKg float64) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"weight_kg": weightKg})
}

func (s *ProfileService) SetSex(ctx context.Context, userID uint, sex string) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"sex": sex})
}

func (s *ProfileService) SetSmokingStatus(ctx context.Context, userID uint, status string) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"smoking_status": status})
}

func (s *ProfileService) SetBirthYear(ctx context.Context, userID uint, year int) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"birth_year": year})
}

func (s *ProfileService) SetAllergies(ctx context.Context, userID uint, allergies string) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"allergies": allergies})
}

func (s *ProfileService) SetMedications(ctx context.Context, userID uint, medications string) error {
	return s.profiles.Upsert(ctx, userID, map[string]interface{}{"medications": medications})
}
