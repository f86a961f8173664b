package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/repository"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	user, err := s.users.GetOrCreate(ctx, telegramID, username, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) SetMode(ctx context.Context, userID uint, mode engine.Mode) error {
	if mode != engine.ModeHealth && mode != engine.ModeProductivity {
		return fmt.Errorf("invalid mode %q", mode)
	}
	return s.users.UpdateSettings(ctx, userID, "mode", string(mode))
}

func (s *UserService) SetSleepBy(ctx context.Context, userID uint, sleepBy string) error {
	return s.users.UpdateSettings(ctx, userID, "sleep_by", sleepBy)
}

// ToggleSubstance flips one substance in the user's enabled set and returns
// the new set.
func (s *UserService) ToggleSubstance(ctx context.Context, user *database.User, substance engine.Substance) ([]engine.Substance, error) {
	if _, err := engine.ConfigFor(substance); err != nil {
		return nil, err
	}

	enabled := EnabledSubstances(user)
	found := false
	next := make([]engine.Substance, 0, len(enabled)+1)
	for _, e := range enabled {
		if e == substance {
			found = true
			continue
		}
		next = append(next, e)
	}
	if !found {
		next = append(next, substance)
	}

	parts := make([]string, 0, len(next))
	for _, e := range next {
		parts = append(parts, string(e))
	}
	joined := strings.Join(parts, ",")
	if err := s.users.UpdateSettings(ctx, user.ID, "enabled_substances", joined); err != nil {
		return nil, err
	}
	user.EnabledSubstances = joined
	return next, nil
}

// EnabledSubstances parses the user's enabled-substances column, dropping
// anything that is not a known substance.
func EnabledSubstances(user *database.User) []engine.Substance {
	var out []engine.Substance
	for _, raw := range strings.Split(user.EnabledSubstances, ",") {
		s := engine.Substance(strings.TrimSpace(raw))
		if _, err := engine.ConfigFor(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}
