package engine

import "regexp"

// Severity grades how serious an interaction advisory is. It is metadata for
// display only; the numeric effect of a rule lives in its Adjustment.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityCaution Severity = "caution"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Adjustment scales the effective half-life and/or daily mg ceiling of one
// substance. Multipliers of 1.0 (or zero, treated as unset) leave the value
// unchanged.
type Adjustment struct {
	Substance          Substance
	HalfLifeMultiplier float64
	MaxMgMultiplier    float64
}

// Interaction is a static rule: either a set of substances that must all be
// co-active, or a medication free-text pattern together with the substances
// it affects. Interactions are data, not behavior.
type Interaction struct {
	ID                string
	Substances        []Substance
	MedicationPattern *regexp.Regexp
	Affected          []Substance
	Severity          Severity
	Title             string
	Description       string
	Adjustment        *Adjustment
}

// ActiveInteraction is an Interaction that fired for the current context.
type ActiveInteraction struct {
	ID          string
	Severity    Severity
	Title       string
	Description string
	Adjustment  *Adjustment
}

var substanceInteractions = []Interaction{
	{
		ID:          "caffeine-adderall",
		Substances:  []Substance{Caffeine, Adderall},
		Severity:    SeverityWarning,
		Title:       "Caffeine with Adderall",
		Description: "Combined cardiovascular load. Keep caffeine well below its usual ceiling while amphetamines are active.",
		Adjustment:  &Adjustment{Substance: Caffeine, HalfLifeMultiplier: 1.0, MaxMgMultiplier: 0.5},
	},
	{
		ID:          "caffeine-dexedrine",
		Substances:  []Substance{Caffeine, Dexedrine},
		Severity:    SeverityWarning,
		Title:       "Caffeine with Dexedrine",
		Description: "Combined cardiovascular load. Keep caffeine well below its usual ceiling while amphetamines are active.",
		Adjustment:  &Adjustment{Substance: Caffeine, HalfLifeMultiplier: 1.0, MaxMgMultiplier: 0.5},
	},
	{
		ID:          "caffeine-nicotine",
		Substances:  []Substance{Caffeine, Nicotine},
		Severity:    SeverityInfo,
		Title:       "Nicotine speeds caffeine clearance",
		Description: "Nicotine induces CYP1A2, so caffeine wears off noticeably faster.",
		Adjustment:  &Adjustment{Substance: Caffeine, HalfLifeMultiplier: 0.8, MaxMgMultiplier: 1.0},
	},
	{
		ID:          "amphetamine-stacking",
		Substances:  []Substance{Adderall, Dexedrine},
		Severity:    SeverityDanger,
		Title:       "Two amphetamine formulations",
		Description: "Adderall and Dexedrine are overlapping amphetamines; their totals count against one budget.",
		Adjustment:  &Adjustment{Substance: Adderall, HalfLifeMultiplier: 1.0, MaxMgMultiplier: 0.5},
	},
	{
		ID:          "amphetamine-stacking-dex",
		Substances:  []Substance{Adderall, Dexedrine},
		Severity:    SeverityDanger,
		Title:       "Two amphetamine formulations",
		Description: "Dexedrine's ceiling is halved while Adderall is also in use.",
		Adjustment:  &Adjustment{Substance: Dexedrine, HalfLifeMultiplier: 1.0, MaxMgMultiplier: 0.5},
	},
}

var medicationInteractions = []Interaction{
	{
		ID:                "maoi-stimulants",
		MedicationPattern: regexp.MustCompile(`(?i)phenelzine|tranylcypromine|selegiline|isocarboxazid|moclobemide|maoi`),
		Affected:          []Substance{Caffeine, Adderall, Dexedrine, Nicotine},
		Severity:          SeverityDanger,
		Title:             "MAOI with stimulants",
		Description:       "MAO inhibitors combined with stimulants risk hypertensive crisis. Talk to your prescriber before any stimulant use.",
	},
	{
		ID:                "ssri-amphetamines",
		MedicationPattern: regexp.MustCompile(`(?i)fluoxetine|sertraline|escitalopram|citalopram|paroxetine|fluvoxamine|ssri`),
		Affected:          []Substance{Adderall, Dexedrine},
		Severity:          SeverityDanger,
		Title:             "SSRI with amphetamines",
		Description:       "Serotonin syndrome risk when SSRIs are combined with amphetamines.",
	},
	{
		ID:                "bupropion-nicotine",
		MedicationPattern: regexp.MustCompile(`(?i)bupropion|wellbutrin|zyban`),
		Affected:          []Substance{Nicotine},
		Severity:          SeverityCaution,
		Title:             "Bupropion with nicotine",
		Description:       "Bupropion plus heavy nicotine use raises seizure-threshold concerns.",
	},
	{
		ID:                "lithium-caffeine",
		MedicationPattern: regexp.MustCompile(`(?i)lithium`),
		Affected:          []Substance{Caffeine},
		Severity:          SeverityCaution,
		Title:             "Lithium with caffeine",
		Description:       "Caffeine changes lithium clearance; keep intake steady rather than varying it.",
	},
}

// ActiveInteractions resolves which rules fire for the union of enabled and
// already-logged substances, plus the profile's medication free text. A
// substance rule fires when all its substances are in that union; a
// medication rule fires when its pattern matches the medications and at least
// one affected substance is in the union. Substance rules come first, then
// medication rules, each in table-declaration order.
func ActiveInteractions(enabled []Substance, p *HealthProfile, todayLogged []Substance) []ActiveInteraction {
	present := make(map[Substance]bool, len(enabled)+len(todayLogged))
	for _, s := range enabled {
		present[s] = true
	}
	for _, s := range todayLogged {
		present[s] = true
	}

	var active []ActiveInteraction
	for _, rule := range substanceInteractions {
		fires := true
		for _, s := range rule.Substances {
			if !present[s] {
				fires = false
				break
			}
		}
		if fires {
			active = append(active, activate(rule))
		}
	}

	if p == nil || p.Medications == "" {
		return active
	}
	for _, rule := range medicationInteractions {
		if !rule.MedicationPattern.MatchString(p.Medications) {
			continue
		}
		for _, s := range rule.Affected {
			if present[s] {
				active = append(active, activate(rule))
				break
			}
		}
	}
	return active
}

func activate(rule Interaction) ActiveInteraction {
	return ActiveInteraction{
		ID:          rule.ID,
		Severity:    rule.Severity,
		Title:       rule.Title,
		Description: rule.Description,
		Adjustment:  rule.Adjustment,
	}
}

// InteractionAdjustments folds the active adjustments targeting one substance
// multiplicatively, starting from identity. No matching adjustment means
// (1.0, 1.0).
func InteractionAdjustments(active []ActiveInteraction, s Substance) (halfLifeMult, maxMgMult float64) {
	halfLifeMult, maxMgMult = 1.0, 1.0
	for _, a := range active {
		if a.Adjustment == nil || a.Adjustment.Substance != s {
			continue
		}
		if a.Adjustment.HalfLifeMultiplier > 0 {
			halfLifeMult *= a.Adjustment.HalfLifeMultiplier
		}
		if a.Adjustment.MaxMgMultiplier > 0 {
			maxMgMult *= a.Adjustment.MaxMgMultiplier
		}
	}
	return halfLifeMult, maxMgMult
}
