package handlers

import (
	"fmt"
	"strings"

	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/services"
)

var severityEmoji = map[engine.Severity]string{
	engine.SeverityInfo:    "ℹ️",
	engine.SeverityCaution: "⚠️",
	engine.SeverityWarning: "⚠️",
	engine.SeverityDanger:  "🚨",
}

func formatStatus(report *services.StatusReport) string {
	var b strings.Builder
	b.WriteString("📊 *Right now*\n\n")
	for _, s := range report.Substances {
		b.WriteString(fmt.Sprintf("*%s*\n", s.Label))
		b.WriteString(fmt.Sprintf("• Active: %.1f mg (half-life %.1fh)\n", s.CurrentMgActive, s.HalfLifeHours))
		b.WriteString(fmt.Sprintf("• Today: %.1f mg\n", s.TotalMgToday))
		if s.Tolerance.Level != engine.ToleranceNone {
			b.WriteString(fmt.Sprintf("• Tolerance: %s (avg %.0f mg/day over %d days)\n",
				s.Tolerance.Level, s.Tolerance.AvgDailyMg, s.Tolerance.TotalDays))
		}
		if s.Tolerance.Message != "" {
			b.WriteString("  " + s.Tolerance.Message + "\n")
		}
		b.WriteString("\n")
	}
	for _, ia := range report.Interactions {
		b.WriteString(fmt.Sprintf("%s *%s*\n%s\n\n", severityEmoji[ia.Severity], ia.Title, ia.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWindows(windows []engine.NextDoseWindow, cutoffs []engine.CutoffResult) string {
	var b strings.Builder
	b.WriteString("⏰ *Next dose*\n\n")
	for _, w := range windows {
		cfg, err := engine.ConfigFor(w.Substance)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("*%s*: %s\n", cfg.Label, w.Message))
		if w.State != engine.StateAllergicSkip {
			b.WriteString(fmt.Sprintf("  %d dose(s) today, %.0f of %.0f mg used, %.0f mg left\n",
				w.DosesToday, w.TotalMgToday, w.MaxMgPerDay, w.RemainingMgToday))
		}
		if w.CurrentMgActive != nil {
			b.WriteString(fmt.Sprintf("  ~%.1f mg still active (half-life %.1fh)\n",
				*w.CurrentMgActive, w.EffectiveHalfLifeHours))
		}
		b.WriteString("\n")
	}
	if len(cutoffs) > 0 {
		b.WriteString("🛏️ *Tonight's cutoffs*\n")
		for _, c := range cutoffs {
			b.WriteString("• " + c.Message + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSleepReadiness(r engine.SleepReadinessResult) string {
	return "😴 *Sleep check*\n\n" + r.Message
}

func formatPeakPlan(suggestions []engine.DoseForPeakSuggestion) string {
	if len(suggestions) == 0 {
		return "No tracked substances to plan with. Enable some under Settings → Substances."
	}
	var b strings.Builder
	b.WriteString("🎯 *Dose-for-peak plan*\n\n")
	for _, sg := range suggestions {
		b.WriteString("• " + sg.Message + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
