package engine

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Allergy keyword aliases per substance. Matching is case-insensitive
// substring containment in either direction, no stemming.
var allergyKeywords = map[Substance][]string{
	Caffeine:  {"caffeine", "coffee"},
	Adderall:  {"amphetamine", "adderall"},
	Dexedrine: {"amphetamine", "dextroamphetamine", "dexedrine"},
	Nicotine:  {"nicotine", "tobacco"},
}

var (
	// CYP1A2 inhibitors and MAOIs that slow caffeine clearance sharply.
	cyp1a2InhibitorPattern = regexp.MustCompile(`(?i)fluvoxamine|ciprofloxacin|moclobemide|maoi`)
	contraceptivePattern   = regexp.MustCompile(`(?i)contraceptive|birth control|ethinyl|estradiol|levonorgestrel|drospirenone`)
)

// ParseAllergyTokens splits free-text allergies on commas and semicolons,
// trims and lowercases each token, and drops empties. Order follows the
// input.
func ParseAllergyTokens(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	for _, raw := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// IsAllergic reports whether the profile lists an allergy token matching one
// of the substance's known keyword aliases.
func IsAllergic(p *HealthProfile, s Substance) bool {
	if p == nil || p.Allergies == "" {
		return false
	}
	for _, tok := range ParseAllergyTokens(p.Allergies) {
		for _, kw := range allergyKeywords[s] {
			if strings.Contains(tok, kw) || strings.Contains(kw, tok) {
				return true
			}
		}
	}
	return false
}

// WeightBasedCaffeineMaxMg returns min(400, round(weightKg * 5.5)). ok is
// false when weight is absent, non-finite or not positive.
func WeightBasedCaffeineMaxMg(p *HealthProfile) (mg float64, ok bool) {
	if p == nil || p.WeightKg == nil {
		return 0, false
	}
	w := *p.WeightKg
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, false
	}
	return math.Min(400, math.Round(w*5.5)), true
}

// PersonalizedHalfLife adjusts a substance's base half-life for the profile.
// Only caffeine is personalized in the current model: smoking wins over a
// CYP1A2-inhibitor match, which wins over the contraceptive adjustment; the
// age factor then applies independently. Other substances return their base
// half-life. Missing profile fields mean "no adjustment", never an error.
func PersonalizedHalfLife(s Substance, p *HealthProfile, now time.Time) float64 {
	cfg, ok := substanceConfigs[s]
	if !ok {
		return 0
	}
	hl := cfg.HalfLifeHours
	if s != Caffeine || p == nil {
		return hl
	}
	switch {
	case p.SmokingStatus == SmokingSmoker:
		hl *= 0.6
	case p.Medications != "" && cyp1a2InhibitorPattern.MatchString(p.Medications):
		hl *= 3.0
	case p.Sex == SexFemale && p.Medications != "" && contraceptivePattern.MatchString(p.Medications):
		hl *= 2.0
	}
	if p.BirthYear != nil && now.Year()-*p.BirthYear >= 65 {
		hl *= 1.3
	}
	return round1(hl)
}

// AllPersonalizedHalfLives applies PersonalizedHalfLife to every substance.
func AllPersonalizedHalfLives(p *HealthProfile, now time.Time) map[Substance]float64 {
	out := make(map[Substance]float64, len(substanceConfigs))
	for _, s := range AllSubstances() {
		out[s] = PersonalizedHalfLife(s, p, now)
	}
	return out
}
