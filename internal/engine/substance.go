package engine

import (
	"fmt"

	apperrors "github.com/dosewise/dosewise/internal/errors"
)

// Substance identifies one of the tracked stimulants. All per-substance
// behavior is table-driven off this key; there is no polymorphism.
type Substance string

const (
	Caffeine  Substance = "caffeine"
	Adderall  Substance = "adderall"
	Dexedrine Substance = "dexedrine"
	Nicotine  Substance = "nicotine"
)

// AllSubstances returns the tracked substances in a stable order.
func AllSubstances() []Substance {
	return []Substance{Caffeine, Adderall, Dexedrine, Nicotine}
}

// Mode selects one of the two bundled policy presets: health trades
// permissiveness for stricter cadence, productivity the other way around.
// Both always stay within the absolute Limits.
type Mode string

const (
	ModeHealth       Mode = "health"
	ModeProductivity Mode = "productivity"
)

// ModeParams override the dosing cadence for one mode.
type ModeParams struct {
	CutoffHoursBeforeSleep float64
	SpacingHours           float64
	MaxDosesPerDay         int
	MaxMgPerDay            float64
}

// Limits is the absolute safety ceiling for a substance, regardless of mode.
type Limits struct {
	MaxDosesPerDay            int
	MaxMgPerDay               float64
	MinSpacingHours           float64
	MinCutoffHoursBeforeSleep float64
}

// Config holds the static pharmacokinetic and policy parameters for one
// substance. PeakHours is a display/messaging estimate only; the
// concentration model's maximum falls at the end of the absorption window.
type Config struct {
	Label           string
	HalfLifeHours   float64
	PeakHours       float64
	AbsorptionHours float64
	DefaultDoseMg   float64
	Limits          Limits
	Health          ModeParams
	Productivity    ModeParams
}

// ModeParams returns the params for the given mode, defaulting to health.
func (c Config) ModeParams(m Mode) ModeParams {
	if m == ModeProductivity {
		return c.Productivity
	}
	return c.Health
}

// Invariant: every mode's params stay within Limits for the same field.
var substanceConfigs = map[Substance]Config{
	Caffeine: {
		Label:           "Caffeine",
		HalfLifeHours:   5.0,
		PeakHours:       0.75,
		AbsorptionHours: 0.75,
		DefaultDoseMg:   95, // one brewed cup
		Limits:          Limits{MaxDosesPerDay: 6, MaxMgPerDay: 400, MinSpacingHours: 2, MinCutoffHoursBeforeSleep: 6},
		Health:          ModeParams{CutoffHoursBeforeSleep: 8, SpacingHours: 3, MaxDosesPerDay: 4, MaxMgPerDay: 300},
		Productivity:    ModeParams{CutoffHoursBeforeSleep: 6, SpacingHours: 2, MaxDosesPerDay: 5, MaxMgPerDay: 400},
	},
	Adderall: {
		Label:           "Adderall",
		HalfLifeHours:   10.0,
		PeakHours:       3.0,
		AbsorptionHours: 1.0,
		DefaultDoseMg:   10,
		Limits:          Limits{MaxDosesPerDay: 3, MaxMgPerDay: 60, MinSpacingHours: 4, MinCutoffHoursBeforeSleep: 8},
		Health:          ModeParams{CutoffHoursBeforeSleep: 14, SpacingHours: 6, MaxDosesPerDay: 2, MaxMgPerDay: 30},
		Productivity:    ModeParams{CutoffHoursBeforeSleep: 10, SpacingHours: 4, MaxDosesPerDay: 3, MaxMgPerDay: 40},
	},
	Dexedrine: {
		Label:           "Dexedrine",
		HalfLifeHours:   10.5,
		PeakHours:       3.0,
		AbsorptionHours: 1.0,
		DefaultDoseMg:   10,
		Limits:          Limits{MaxDosesPerDay: 3, MaxMgPerDay: 60, MinSpacingHours: 4, MinCutoffHoursBeforeSleep: 8},
		Health:          ModeParams{CutoffHoursBeforeSleep: 14, SpacingHours: 6, MaxDosesPerDay: 2, MaxMgPerDay: 30},
		Productivity:    ModeParams{CutoffHoursBeforeSleep: 10, SpacingHours: 4, MaxDosesPerDay: 3, MaxMgPerDay: 40},
	},
	Nicotine: {
		Label:           "Nicotine",
		HalfLifeHours:   2.0,
		PeakHours:       0.25,
		AbsorptionHours: 0.25,
		DefaultDoseMg:   1.0, // one cigarette's absorbed dose
		Limits:          Limits{MaxDosesPerDay: 20, MaxMgPerDay: 24, MinSpacingHours: 0.5, MinCutoffHoursBeforeSleep: 1},
		Health:          ModeParams{CutoffHoursBeforeSleep: 3, SpacingHours: 1.5, MaxDosesPerDay: 10, MaxMgPerDay: 10},
		Productivity:    ModeParams{CutoffHoursBeforeSleep: 1.5, SpacingHours: 1, MaxDosesPerDay: 15, MaxMgPerDay: 16},
	},
}

// ConfigFor looks up the static configuration for a substance. An unknown
// substance is a caller bug and fails fast.
func ConfigFor(s Substance) (Config, error) {
	cfg, ok := substanceConfigs[s]
	if !ok {
		return Config{}, apperrors.NewValidationError(fmt.Sprintf("unknown substance %q", s))
	}
	return cfg, nil
}

// DailyLimit is an absolute per-day ceiling used for red-flagging regardless
// of the active mode.
type DailyLimit struct {
	MaxDosesPerDay int
	MaxMgPerDay    float64
}

// GovernmentLimits returns the absolute daily ceilings for every substance.
func GovernmentLimits() map[Substance]DailyLimit {
	out := make(map[Substance]DailyLimit, len(substanceConfigs))
	for s, cfg := range substanceConfigs {
		out[s] = DailyLimit{
			MaxDosesPerDay: cfg.Limits.MaxDosesPerDay,
			MaxMgPerDay:    cfg.Limits.MaxMgPerDay,
		}
	}
	return out
}
