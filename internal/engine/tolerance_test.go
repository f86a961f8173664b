package engine

import (
	"testing"
	"time"
)

// dailyLogs fabricates one dose per day of the given size for the `days` days
// ending at now.
func dailyLogs(s Substance, mgPerDay float64, days int, now time.Time) []DoseLog {
	var logs []DoseLog
	for i := 0; i < days; i++ {
		logs = append(logs, DoseLog{
			Substance: s,
			AmountMg:  fp(mgPerDay),
			LoggedAt:  now.AddDate(0, 0, -i),
		})
	}
	return logs
}

func TestDailyTotals(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	logs := []DoseLog{
		{Substance: Caffeine, AmountMg: fp(95), LoggedAt: now},
		{Substance: Caffeine, AmountMg: fp(60), LoggedAt: now.Add(-2 * time.Hour)},
		{Substance: Caffeine, LoggedAt: now.AddDate(0, 0, -1)},          // nil -> default 95
		{Substance: Adderall, AmountMg: fp(10), LoggedAt: now},          // other substance ignored
		{Substance: Caffeine, AmountMg: fp(50), LoggedAt: now.AddDate(0, 0, -5)}, // outside window
	}

	totals := DailyTotals(logs, Caffeine, now, 3)
	if len(totals) != 3 {
		t.Fatalf("got %d buckets, want 3", len(totals))
	}
	if totals[0].Date != "2025-06-08" || totals[0].TotalMg != 0 {
		t.Errorf("oldest bucket = %+v, want empty 2025-06-08", totals[0])
	}
	if totals[1].Date != "2025-06-09" || totals[1].TotalMg != 95 {
		t.Errorf("middle bucket = %+v, want 95 mg on 2025-06-09", totals[1])
	}
	if totals[2].Date != "2025-06-10" || totals[2].TotalMg != 155 {
		t.Errorf("newest bucket = %+v, want 155 mg on 2025-06-10", totals[2])
	}
}

func TestToleranceFor(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		logs     []DoseLog
		level    ToleranceLevel
		mult     float64
		hasMsg   bool
	}{
		{"no usage", nil, ToleranceNone, 1.0, false},
		{"two days used stays none", dailyLogs(Caffeine, 400, 2, now), ToleranceNone, 1.0, false},
		{"light ratio stays none", dailyLogs(Caffeine, 50, 14, now), ToleranceNone, 1.0, false},
		{"below baseline is low", dailyLogs(Caffeine, 100, 14, now), ToleranceLow, 1.05, false},
		{"above baseline is moderate", dailyLogs(Caffeine, 250, 14, now), ToleranceModerate, 1.15, true},
		{"double baseline is elevated", dailyLogs(Caffeine, 400, 14, now), ToleranceElevated, 1.3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ToleranceFor(tt.logs, Caffeine, now)
			if info.Level != tt.level {
				t.Errorf("level = %s, want %s", info.Level, tt.level)
			}
			if info.Multiplier != tt.mult {
				t.Errorf("multiplier = %v, want %v", info.Multiplier, tt.mult)
			}
			if (info.Message != "") != tt.hasMsg {
				t.Errorf("message = %q, hasMsg want %v", info.Message, tt.hasMsg)
			}
		})
	}
}

func TestToleranceForNicotineBaseline(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	// 16 mg/day against an 8 mg baseline is a ratio of 2.0.
	info := ToleranceFor(dailyLogs(Nicotine, 16, 14, now), Nicotine, now)
	if info.Level != ToleranceElevated {
		t.Errorf("level = %s, want elevated", info.Level)
	}
	if info.DaysUsed != 14 || info.TotalDays != 14 {
		t.Errorf("days = %d/%d, want 14/14", info.DaysUsed, info.TotalDays)
	}
}
