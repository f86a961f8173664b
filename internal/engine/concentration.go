package engine

import (
	"fmt"
	"math"
	"time"

	apperrors "github.com/dosewise/dosewise/internal/errors"
)

// ConcentrationPoint is one sample of the modeled curve.
type ConcentrationPoint struct {
	Time     time.Time
	MgActive float64
}

const (
	defaultCurveStepMinutes = 10
	clearanceStepMinutes    = 5
	clearanceHorizonHours   = 48
)

// sleepSafeThresholdsMg are the active-mg levels under which a substance is
// assumed not to meaningfully disrupt sleep onset.
var sleepSafeThresholdsMg = map[Substance]float64{
	Caffeine:  50,
	Adderall:  5,
	Dexedrine: 5,
	Nicotine:  0.3,
}

// SingleDoseConcentration models one dose as a linear ramp over the
// absorption window followed by single-exponential decay from the point
// absorption completed. This is deliberately not a two-compartment PK curve:
// the modeled maximum is the full dose at the end of absorption, which is
// unrelated to the substance's PeakHours display field.
func SingleDoseConcentration(doseMg float64, doseTime, targetTime time.Time, halfLifeHours, absorptionHours float64) float64 {
	if targetTime.Before(doseTime) {
		return 0
	}
	elapsedH := targetTime.Sub(doseTime).Hours()
	if absorptionHours > 0 && elapsedH <= absorptionHours {
		return doseMg * (elapsedH / absorptionHours)
	}
	return doseMg * math.Exp(-math.Ln2/halfLifeHours*(elapsedH-absorptionHours))
}

// ConcentrationAt sums every matching dose's contribution at targetTime,
// rounded to two decimals. Doses resolving to zero mg are skipped. A
// non-positive halfLifeHours falls back to the substance's base half-life;
// callers normally pass the personalized, interaction-adjusted value.
func ConcentrationAt(logs []DoseLog, s Substance, targetTime time.Time, halfLifeHours float64) float64 {
	cfg, ok := substanceConfigs[s]
	if !ok {
		return 0
	}
	hl := halfLifeHours
	if hl <= 0 {
		hl = cfg.HalfLifeHours
	}

	total := 0.0
	for _, l := range logs {
		if l.Substance != s {
			continue
		}
		mg := l.ResolvedMg()
		if mg <= 0 {
			continue
		}
		total += SingleDoseConcentration(mg, l.LoggedAt, targetTime, hl, cfg.AbsorptionHours)
	}
	return round2(total)
}

// ConcentrationCurve samples the summed concentration from startTime to
// endTime inclusive. stepMinutes defaults to 10 when non-positive. The walk
// is stateless: identical inputs yield identical output.
func ConcentrationCurve(logs []DoseLog, s Substance, startTime, endTime time.Time, halfLifeHours float64, stepMinutes int) ([]ConcentrationPoint, error) {
	if endTime.Before(startTime) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"curve end %s precedes start %s",
			endTime.Format(time.RFC3339), startTime.Format(time.RFC3339)))
	}
	if stepMinutes <= 0 {
		stepMinutes = defaultCurveStepMinutes
	}
	step := time.Duration(stepMinutes) * time.Minute

	var points []ConcentrationPoint
	for t := startTime; !t.After(endTime); t = t.Add(step) {
		points = append(points, ConcentrationPoint{
			Time:     t,
			MgActive: ConcentrationAt(logs, s, t, halfLifeHours),
		})
	}
	return points, nil
}

// ClearanceStatus disambiguates the two conditions a nullable "time until
// below" result would conflate.
type ClearanceStatus int

const (
	// ClearanceAlreadyBelow: concentration at the query time was at or below
	// the threshold; no wait is needed.
	ClearanceAlreadyBelow ClearanceStatus = iota
	// ClearanceAt: concentration first reaches the threshold at Clearance.At.
	ClearanceAt
	// ClearanceNotWithinHorizon: still above the threshold 48 hours out.
	ClearanceNotWithinHorizon
)

// Clearance is the tri-state result of TimeUntilBelow. At is only meaningful
// when Status is ClearanceAt.
type Clearance struct {
	Status ClearanceStatus
	At     time.Time
}

// TimeUntilBelow searches forward from fromTime in 5-minute steps, up to a
// 48-hour horizon, for the first sample at or below thresholdMg.
func TimeUntilBelow(logs []DoseLog, s Substance, fromTime time.Time, thresholdMg, halfLifeHours float64) Clearance {
	if ConcentrationAt(logs, s, fromTime, halfLifeHours) <= thresholdMg {
		return Clearance{Status: ClearanceAlreadyBelow}
	}
	step := clearanceStepMinutes * time.Minute
	horizon := fromTime.Add(clearanceHorizonHours * time.Hour)
	for t := fromTime.Add(step); !t.After(horizon); t = t.Add(step) {
		if ConcentrationAt(logs, s, t, halfLifeHours) <= thresholdMg {
			return Clearance{Status: ClearanceAt, At: t}
		}
	}
	return Clearance{Status: ClearanceNotWithinHorizon}
}

// SleepReadiness reports when every tracked substance falls below its
// sleep-safe threshold. ReadyAt is nil when everything is already below.
// StillActive lists substances that stay above threshold past the 48-hour
// horizon, which callers must not confuse with "clear now".
type SleepReadiness struct {
	ReadyAt     *time.Time
	StillActive []Substance
}

// SleepReadinessTime finds the latest clearance time across all substances
// against the sleep-safe thresholds. halfLives may carry personalized
// per-substance overrides; missing entries use the base half-life.
func SleepReadinessTime(logs []DoseLog, fromTime time.Time, halfLives map[Substance]float64) SleepReadiness {
	var ready SleepReadiness
	for _, s := range AllSubstances() {
		c := TimeUntilBelow(logs, s, fromTime, sleepSafeThresholdsMg[s], halfLives[s])
		switch c.Status {
		case ClearanceAt:
			if ready.ReadyAt == nil || c.At.After(*ready.ReadyAt) {
				at := c.At
				ready.ReadyAt = &at
			}
		case ClearanceNotWithinHorizon:
			ready.StillActive = append(ready.StillActive, s)
		}
	}
	return ready
}
