package engine

import (
	"fmt"
	"strings"
	"time"
)

// ToleranceLevel classifies recent usage against a per-substance baseline.
type ToleranceLevel string

const (
	ToleranceNone     ToleranceLevel = "none"
	ToleranceLow      ToleranceLevel = "low"
	ToleranceModerate ToleranceLevel = "moderate"
	ToleranceElevated ToleranceLevel = "elevated"
)

const toleranceWindowDays = 14

// toleranceBaselineMg is the daily intake treated as a neutral baseline when
// classifying tolerance.
var toleranceBaselineMg = map[Substance]float64{
	Caffeine:  200,
	Adderall:  15,
	Dexedrine: 15,
	Nicotine:  8,
}

// DailyTotal is one calendar day's summed intake for a substance.
type DailyTotal struct {
	Date    string // YYYY-MM-DD in the reference time's location
	TotalMg float64
}

// ToleranceInfo is the derived usage classification for one substance. It is
// informational only: Multiplier is surfaced for display and is deliberately
// never applied to dose ceilings by the recommendation policy.
type ToleranceInfo struct {
	Substance  Substance
	Level      ToleranceLevel
	Multiplier float64
	AvgDailyMg float64
	DaysUsed   int
	TotalDays  int
	Message    string
}

// DailyTotals buckets doses by calendar date over the `days` days ending at
// `from`, ordered oldest first. Absent or invalid amounts substitute the
// substance's default dose; an explicit zero contributes nothing.
func DailyTotals(logs []DoseLog, s Substance, from time.Time, days int) []DailyTotal {
	byDate := make(map[string]float64)
	for _, l := range logs {
		if l.Substance != s {
			continue
		}
		date := l.LoggedAt.In(from.Location()).Format("2006-01-02")
		byDate[date] += l.ResolvedMg()
	}

	totals := make([]DailyTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := from.AddDate(0, 0, -i).Format("2006-01-02")
		totals = append(totals, DailyTotal{Date: date, TotalMg: round2(byDate[date])})
	}
	return totals
}

// ToleranceFor classifies the rolling 14-day usage of a substance as of now.
func ToleranceFor(logs []DoseLog, s Substance, now time.Time) ToleranceInfo {
	totals := DailyTotals(logs, s, now, toleranceWindowDays)

	var sum float64
	daysUsed := 0
	for _, t := range totals {
		sum += t.TotalMg
		if t.TotalMg > 0 {
			daysUsed++
		}
	}
	avg := sum / toleranceWindowDays

	ratio := 0.0
	if baseline := toleranceBaselineMg[s]; baseline > 0 {
		ratio = avg / baseline
	}

	info := ToleranceInfo{
		Substance:  s,
		AvgDailyMg: round2(avg),
		DaysUsed:   daysUsed,
		TotalDays:  toleranceWindowDays,
	}
	label := strings.ToLower(substanceConfigs[s].Label)
	switch {
	case daysUsed <= 2 || ratio < 0.3:
		info.Level, info.Multiplier = ToleranceNone, 1.0
	case ratio < 1.0:
		info.Level, info.Multiplier = ToleranceLow, 1.05
	case ratio < 2.0:
		info.Level, info.Multiplier = ToleranceModerate, 1.15
		info.Message = fmt.Sprintf("Regular %s use over the last two weeks. A 2-3 day break would reset tolerance.", label)
	default:
		info.Level, info.Multiplier = ToleranceElevated, 1.3
		info.Message = fmt.Sprintf("Heavy %s use over the last two weeks. Consider a 3-5 day break.", label)
	}
	return info
}
