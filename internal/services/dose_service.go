package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/repository"
)

type DoseService struct {
	logs *repository.DoseLogRepository
}

func NewDoseService(logs *repository.DoseLogRepository) *DoseService {
	return &DoseService{logs: logs}
}

// LogDose stores one administration. amountMg nil means "default dose for the
// substance"; the engine resolves it at read time.
func (s *DoseService) LogDose(ctx context.Context, userID uint, substance engine.Substance, amountMg *float64, at time.Time, source, note string) (*database.DoseLog, error) {
	if _, err := engine.ConfigFor(substance); err != nil {
		return nil, err
	}

	log := &database.DoseLog{
		UserID:    userID,
		Substance: string(substance),
		AmountMg:  amountMg,
		LoggedAt:  at,
		Source:    source,
		Note:      note,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// EngineLogsSince fetches a user's logs at or after `since` converted to
// engine records. Callers choose the lookback window (48h for redose math,
// 14 days when tolerance is involved).
func (s *DoseService) EngineLogsSince(ctx context.Context, userID uint, since time.Time) ([]engine.DoseLog, error) {
	records, err := s.logs.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return toEngineLogs(records), nil
}

// UndoLast deletes the user's most recent dose log.
func (s *DoseService) UndoLast(ctx context.Context, userID uint) error {
	if err := s.logs.DeleteLast(ctx, userID); err != nil {
		return fmt.Errorf("failed to undo last dose: %w", err)
	}
	return nil
}

func toEngineLogs(records []database.DoseLog) []engine.DoseLog {
	out := make([]engine.DoseLog, 0, len(records))
	for _, r := range records {
		out = append(out, engine.DoseLog{
			Substance: engine.Substance(r.Substance),
			AmountMg:  r.AmountMg,
			LoggedAt:  r.LoggedAt,
		})
	}
	return out
}
