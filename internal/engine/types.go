// Package engine is the stimulant pharmacokinetics and dose-recommendation
// core. It is a pure function library: callers pass dose logs, a health
// profile and an explicit "now", and get concentration estimates and
// recommendations back. The package does no I/O, reads no clock and keeps no
// state, so the same inputs always produce the same outputs.
//
// Nothing in here is medical advice; the model is a heuristic decision-support
// calculator, not a physiological simulator.
package engine

import (
	"math"
	"time"
)

// Sex and smoking status values recognized by the profile adjuster. Any other
// value means "no adjustment".
const (
	SexFemale = "female"
	SexMale   = "male"

	SmokingSmoker    = "smoker"
	SmokingNonSmoker = "non_smoker"
)

// DoseLog is one logged administration. The engine only ever reads logs.
type DoseLog struct {
	Substance Substance
	AmountMg  *float64 // nil means "use the substance's default dose"
	LoggedAt  time.Time
}

// ResolvedMg returns the dose amount, substituting the substance's default
// when the amount is absent, negative or non-finite. An explicit zero stays
// zero.
func (d DoseLog) ResolvedMg() float64 {
	def := substanceConfigs[d.Substance].DefaultDoseMg
	if d.AmountMg == nil {
		return def
	}
	v := *d.AmountMg
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return def
	}
	return v
}

// HealthProfile is the optional per-user physiological record. Every field
// may be absent; absence degrades to base (non-personalized) behavior
// everywhere the profile is consulted.
type HealthProfile struct {
	WeightKg      *float64
	HeightCm      *float64
	Allergies     string // free text, comma/semicolon-delimited tokens
	Medications   string // free text, matched via patterns
	Sex           string
	SmokingStatus string
	BirthYear     *int
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
