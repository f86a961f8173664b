package services

import (
	"context"
	"time"

	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
)

// RecommendationService glues persistence to the pure engine: it fetches the
// relevant lookback window of logs and the profile, resolves the user's
// settings, and hands everything to the engine with an explicit "now".
type RecommendationService struct {
	doses    *DoseService
	profiles *ProfileService
}

// SubstanceStatus is one row of the status view.
type SubstanceStatus struct {
	Substance       engine.Substance
	Label           string
	CurrentMgActive float64
	HalfLifeHours   float64
	TotalMgToday    float64
	Tolerance       engine.ToleranceInfo
}

// StatusReport is the full "where am I right now" view.
type StatusReport struct {
	Substances   []SubstanceStatus
	Interactions []engine.ActiveInteraction
}

func NewRecommendationService(doses *DoseService, profiles *ProfileService) *RecommendationService {
	return &RecommendationService{doses: doses, profiles: profiles}
}

// Status reports current active mg, today's totals and tolerance per enabled
// substance, plus any active interaction advisories.
func (s *RecommendationService) Status(ctx context.Context, user *database.User, now time.Time) (*StatusReport, error) {
	profile, logs, halfLives, err := s.load(ctx, user, now)
	if err != nil {
		return nil, err
	}
	substances := EnabledSubstances(user)

	report := &StatusReport{}
	var todayLogged []engine.Substance
	for _, sub := range substances {
		cfg, err := engine.ConfigFor(sub)
		if err != nil {
			return nil, err
		}
		totals := engine.DailyTotals(logs, sub, now, 1)
		todayMg := 0.0
		if len(totals) > 0 {
			todayMg = totals[len(totals)-1].TotalMg
		}
		if todayMg > 0 {
			todayLogged = append(todayLogged, sub)
		}
		report.Substances = append(report.Substances, SubstanceStatus{
			Substance:       sub,
			Label:           cfg.Label,
			CurrentMgActive: engine.ConcentrationAt(logs, sub, now, halfLives[sub]),
			HalfLifeHours:   halfLives[sub],
			TotalMgToday:    todayMg,
			Tolerance:       engine.ToleranceFor(logs, sub, now),
		})
	}
	report.Interactions = engine.ActiveInteractions(substances, profile, todayLogged)
	return report, nil
}

// NextDoseWindows runs the per-substance recommendation state machine.
func (s *RecommendationService) NextDoseWindows(ctx context.Context, user *database.User, now time.Time) ([]engine.NextDoseWindow, error) {
	profile, logs, halfLives, err := s.load(ctx, user, now)
	if err != nil {
		return nil, err
	}
	sleepBy := resolveSleepBy(now, user.SleepBy)
	return engine.NextDoseWindows(logs, now, engine.Mode(user.Mode), sleepBy, EnabledSubstances(user), profile, halfLives), nil
}

// Cutoffs computes last-dose-before-sleep times for tonight.
func (s *RecommendationService) Cutoffs(ctx context.Context, user *database.User, now time.Time) ([]engine.CutoffResult, error) {
	profile, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	sleepBy := resolveSleepBy(now, user.SleepBy)
	return engine.CutoffTimes(sleepBy, engine.Mode(user.Mode), EnabledSubstances(user), profile), nil
}

// SleepReadiness reports when stimulant levels drop below sleep-safe thresholds.
func (s *RecommendationService) SleepReadiness(ctx context.Context, user *database.User, now time.Time) (engine.SleepReadinessResult, error) {
	_, logs, halfLives, err := s.load(ctx, user, now)
	if err != nil {
		return engine.SleepReadinessResult{}, err
	}
	return engine.SleepReadinessReport(logs, now, halfLives), nil
}

// PeakPlan back-computes take-by times so the configured peak lands at peakAt.
func (s *RecommendationService) PeakPlan(ctx context.Context, user *database.User, now, peakAt time.Time) ([]engine.DoseForPeakSuggestion, error) {
	profile, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	sleepBy := resolveSleepBy(now, user.SleepBy)
	return engine.DoseForPeakAt(peakAt, engine.Mode(user.Mode), sleepBy, EnabledSubstances(user), profile), nil
}

// load fetches the 14-day lookback (covers tolerance; redose math only needs
// 48h of it) and the personalized half-lives.
func (s *RecommendationService) load(ctx context.Context, user *database.User, now time.Time) (*engine.HealthProfile, []engine.DoseLog, map[engine.Substance]float64, error) {
	profile, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	logs, err := s.doses.EngineLogsSince(ctx, user.ID, now.AddDate(0, 0, -14))
	if err != nil {
		return nil, nil, nil, err
	}
	return profile, logs, engine.AllPersonalizedHalfLives(profile, now), nil
}

// resolveSleepBy turns the stored "HH:MM" bedtime into the next concrete
// sleep-by timestamp at or after now.
func resolveSleepBy(now time.Time, sleepBy string) time.Time {
	t, err := time.Parse("15:04", sleepBy)
	if err != nil {
		t, _ = time.Parse("15:04", "23:00")
	}
	resolved := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if resolved.Before(now) {
		resolved = resolved.AddDate(0, 0, 1)
	}
	return resolved
}
