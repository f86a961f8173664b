package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// WindowState is the per-substance recommendation state. Each substance is
// evaluated independently; there is no cross-substance state machine.
type WindowState string

const (
	StateAllergicSkip      WindowState = "allergic_skip"
	StateAtLimit           WindowState = "at_limit"
	StateNoHistory         WindowState = "no_history"
	StateSpacingWait       WindowState = "spacing_wait"
	StateReady             WindowState = "ready"
	StateConcentrationWait WindowState = "concentration_wait"
)

// redoseThresholdsMg: active-mg level under which suggesting another dose is
// considered safe. Used only when pharmacokinetic data is supplied; it takes
// priority over the static spacing rule.
var redoseThresholdsMg = map[Substance]float64{
	Caffeine:  30,
	Adderall:  5,
	Dexedrine: 6,
	Nicotine:  0.3,
}

// CutoffResult is one substance's last-dose-before-sleep time.
type CutoffResult struct {
	Substance Substance
	Cutoff    time.Time
	Message   string
}

// NextDoseWindow is the full recommendation for one substance, including the
// provenance fields callers need to render how the numbers were derived.
type NextDoseWindow struct {
	Substance              Substance
	State                  WindowState
	RecommendedAt          *time.Time
	PeakAt                 *time.Time
	Message                string
	DosesToday             int
	TotalMgToday           float64
	MaxMgPerDay            float64
	RemainingMgToday       float64
	CurrentMgActive        *float64 // set only when PK data was supplied
	EffectiveHalfLifeHours float64
}

// DoseForPeakSuggestion back-computes when to dose so the configured peak
// lands at the requested time.
type DoseForPeakSuggestion struct {
	Substance   Substance
	TakeBy      time.Time
	PeakAt      time.Time
	AfterCutoff bool
	Message     string
}

// SleepReadinessResult pairs the readiness time with a user-facing message.
type SleepReadinessResult struct {
	ReadyAt *time.Time
	Message string
}

// CutoffTimes computes, for each non-allergic substance, the latest dose time
// that keeps the mode's cutoff distance ahead of sleepBy.
func CutoffTimes(sleepBy time.Time, mode Mode, substances []Substance, p *HealthProfile) []CutoffResult {
	var out []CutoffResult
	for _, s := range substances {
		cfg, ok := substanceConfigs[s]
		if !ok || IsAllergic(p, s) {
			continue
		}
		mp := cfg.ModeParams(mode)
		cutoff := sleepBy.Add(-hours(mp.CutoffHoursBeforeSleep))
		out = append(out, CutoffResult{
			Substance: s,
			Cutoff:    cutoff,
			Message:   fmt.Sprintf("No %s after %s.", strings.ToLower(cfg.Label), cutoff.Format("3:04 PM")),
		})
	}
	return out
}

// NextDoseWindows runs the recommendation state machine for each substance.
// halfLives carries personalized per-substance half-lives; when nil, the
// concentration-override path is skipped and only the static spacing rules
// apply. Degraded input never errors: no history is the "first dose of the
// day" case, not a failure.
func NextDoseWindows(logs []DoseLog, now time.Time, mode Mode, sleepBy time.Time, substances []Substance, p *HealthProfile, halfLives map[Substance]float64) []NextDoseWindow {
	todayLogged := substancesLoggedOn(logs, now)
	active := ActiveInteractions(substances, p, todayLogged)

	out := make([]NextDoseWindow, 0, len(substances))
	for _, s := range substances {
		if _, ok := substanceConfigs[s]; !ok {
			continue
		}
		out = append(out, nextDoseWindow(logs, now, mode, sleepBy, s, p, halfLives, active))
	}
	return out
}

func nextDoseWindow(logs []DoseLog, now time.Time, mode Mode, sleepBy time.Time, s Substance, p *HealthProfile, halfLives map[Substance]float64, active []ActiveInteraction) NextDoseWindow {
	cfg := substanceConfigs[s]
	mp := cfg.ModeParams(mode)
	label := strings.ToLower(cfg.Label)

	hlMult, mgMult := InteractionAdjustments(active, s)

	baseHL := cfg.HalfLifeHours
	if halfLives != nil && halfLives[s] > 0 {
		baseHL = halfLives[s]
	}
	effHL := round1(baseHL * hlMult)

	maxMg := mp.MaxMgPerDay * mgMult
	if s == Caffeine {
		if weightCap, ok := WeightBasedCaffeineMaxMg(p); ok && weightCap < maxMg {
			maxMg = weightCap
		}
	}
	maxMg = round2(math.Min(maxMg, cfg.Limits.MaxMgPerDay))

	todayLogs := logsOnDay(logs, s, now)
	dosesToday := 0
	totalMg := 0.0
	var lastDose *DoseLog
	for i := range todayLogs {
		mg := todayLogs[i].ResolvedMg()
		if mg <= 0 {
			continue
		}
		dosesToday++
		totalMg += mg
		if lastDose == nil || todayLogs[i].LoggedAt.After(lastDose.LoggedAt) {
			lastDose = &todayLogs[i]
		}
	}

	w := NextDoseWindow{
		Substance:              s,
		DosesToday:             dosesToday,
		TotalMgToday:           round2(totalMg),
		MaxMgPerDay:            maxMg,
		RemainingMgToday:       round2(math.Max(0, maxMg-totalMg)),
		EffectiveHalfLifeHours: effHL,
	}

	if IsAllergic(p, s) {
		w.State = StateAllergicSkip
		w.Message = fmt.Sprintf("%s is skipped: your profile lists a matching allergy.", cfg.Label)
		return w
	}

	if dosesToday >= mp.MaxDosesPerDay || totalMg >= maxMg {
		w.State = StateAtLimit
		w.Message = fmt.Sprintf("Daily %s limit reached (%d doses, %.0f mg). Wait until tomorrow.", label, dosesToday, totalMg)
		return w
	}

	// Concentration override: with PK data, the modeled level beats the
	// static spacing rule.
	if halfLives != nil {
		cur := ConcentrationAt(logs, s, now, effHL)
		w.CurrentMgActive = &cur
		if threshold := redoseThresholdsMg[s]; cur > threshold {
			c := TimeUntilBelow(logs, s, now, threshold, effHL)
			w.State = StateConcentrationWait
			switch c.Status {
			case ClearanceAt:
				at := c.At
				w.RecommendedAt = &at
				w.Message = fmt.Sprintf("About %.0f mg of %s is still active. Safe to redose around %s.", cur, label, at.Format("3:04 PM"))
			case ClearanceNotWithinHorizon:
				w.Message = fmt.Sprintf("%s levels stay elevated beyond the 48-hour search horizon.", cfg.Label)
			}
			return applySleepGuard(w, sleepBy)
		}
	}

	if lastDose == nil {
		at := now
		peak := now.Add(hours(cfg.PeakHours))
		w.State = StateNoHistory
		w.RecommendedAt = &at
		w.PeakAt = &peak
		w.Message = fmt.Sprintf("No %s yet today. A dose now would peak around %s.", label, peak.Format("3:04 PM"))
		return applySleepGuard(w, sleepBy)
	}

	spacing := mp.SpacingHours + spacingExtraHours(s, lastDose.ResolvedMg())
	nextOK := lastDose.LoggedAt.Add(hours(spacing))
	if now.Before(nextOK) {
		w.State = StateSpacingWait
		w.RecommendedAt = &nextOK
		w.Message = fmt.Sprintf("Last %s dose was at %s. Next window opens at %s.", label, lastDose.LoggedAt.Format("3:04 PM"), nextOK.Format("3:04 PM"))
		return applySleepGuard(w, sleepBy)
	}

	at := now
	peak := now.Add(hours(cfg.PeakHours))
	w.State = StateReady
	w.RecommendedAt = &at
	w.PeakAt = &peak
	w.Message = fmt.Sprintf("Spacing has elapsed. %s is OK now, %.0f mg left today.", cfg.Label, w.RemainingMgToday)
	return applySleepGuard(w, sleepBy)
}

// spacingExtraHours widens the base spacing after an unusually large last
// dose: caffeine gains an hour per 100 mg over 100 mg (capped at two hours),
// amphetamines gain one hour above 20 mg and two above 30 mg.
func spacingExtraHours(s Substance, lastMg float64) float64 {
	switch s {
	case Caffeine:
		if lastMg > 100 {
			return math.Min(2, (lastMg-100)/100)
		}
	case Adderall, Dexedrine:
		if lastMg > 30 {
			return 2
		}
		if lastMg > 20 {
			return 1
		}
	}
	return 0
}

// applySleepGuard rewrites the message when the recommended time lands inside
// [sleepBy, 5:00 AM the next day]. The time value itself is kept so callers
// can still render it.
func applySleepGuard(w NextDoseWindow, sleepBy time.Time) NextDoseWindow {
	if w.RecommendedAt == nil {
		return w
	}
	at := *w.RecommendedAt
	y, m, d := sleepBy.Date()
	fiveAM := time.Date(y, m, d+1, 5, 0, 0, 0, sleepBy.Location())
	if !at.Before(sleepBy) && !at.After(fiveAM) {
		w.Message = fmt.Sprintf("The computed time (%s) falls during sleep hours. Wait until after 5:00 AM.", at.Format("3:04 PM"))
	}
	return w
}

// DoseForPeakAt back-computes takeBy = peakAt - PeakHours per non-allergic
// substance. PeakHours is the display-oriented peak estimate and is
// intentionally independent of the concentration model's end-of-absorption
// maximum; both notions coexist in this system. After-cutoff suggestions are
// flagged, never dropped.
func DoseForPeakAt(peakAt time.Time, mode Mode, sleepBy time.Time, substances []Substance, p *HealthProfile) []DoseForPeakSuggestion {
	var out []DoseForPeakSuggestion
	for _, s := range substances {
		cfg, ok := substanceConfigs[s]
		if !ok || IsAllergic(p, s) {
			continue
		}
		mp := cfg.ModeParams(mode)
		label := strings.ToLower(cfg.Label)
		takeBy := peakAt.Add(-hours(cfg.PeakHours))
		cutoff := sleepBy.Add(-hours(mp.CutoffHoursBeforeSleep))

		sug := DoseForPeakSuggestion{
			Substance:   s,
			TakeBy:      takeBy,
			PeakAt:      peakAt,
			AfterCutoff: !takeBy.Before(cutoff),
		}
		if sug.AfterCutoff {
			sug.Message = fmt.Sprintf("Take %s by %s to peak at %s. Note: that is past today's cutoff (%s).",
				label, takeBy.Format("3:04 PM"), peakAt.Format("3:04 PM"), cutoff.Format("3:04 PM"))
		} else {
			sug.Message = fmt.Sprintf("Take %s by %s to peak around %s.",
				label, takeBy.Format("3:04 PM"), peakAt.Format("3:04 PM"))
		}
		out = append(out, sug)
	}
	return out
}

// SleepReadinessReport wraps SleepReadinessTime with a user-facing message.
func SleepReadinessReport(logs []DoseLog, now time.Time, halfLives map[Substance]float64) SleepReadinessResult {
	r := SleepReadinessTime(logs, now, halfLives)
	switch {
	case len(r.StillActive) > 0:
		labels := make([]string, 0, len(r.StillActive))
		for _, s := range r.StillActive {
			labels = append(labels, substanceConfigs[s].Label)
		}
		sort.Strings(labels)
		return SleepReadinessResult{
			Message: fmt.Sprintf("%s will still be above sleep-safe levels 48 hours from now.", strings.Join(labels, ", ")),
		}
	case r.ReadyAt != nil:
		return SleepReadinessResult{
			ReadyAt: r.ReadyAt,
			Message: fmt.Sprintf("Stimulants drop to sleep-safe levels around %s.", r.ReadyAt.Format("3:04 PM")),
		}
	default:
		return SleepReadinessResult{Message: "All tracked stimulants are already at sleep-safe levels."}
	}
}

// logsOnDay filters a substance's logs to the calendar date of ref, in ref's
// location.
func logsOnDay(logs []DoseLog, s Substance, ref time.Time) []DoseLog {
	day := ref.Format("2006-01-02")
	var out []DoseLog
	for _, l := range logs {
		if l.Substance != s {
			continue
		}
		if l.LoggedAt.In(ref.Location()).Format("2006-01-02") == day {
			out = append(out, l)
		}
	}
	return out
}

// substancesLoggedOn lists the distinct substances with a positive dose on
// ref's calendar date, in AllSubstances order.
func substancesLoggedOn(logs []DoseLog, ref time.Time) []Substance {
	day := ref.Format("2006-01-02")
	seen := make(map[Substance]bool)
	for _, l := range logs {
		if l.ResolvedMg() <= 0 {
			continue
		}
		if l.LoggedAt.In(ref.Location()).Format("2006-01-02") == day {
			seen[l.Substance] = true
		}
	}
	var out []Substance
	for _, s := range AllSubstances() {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}
