package engine

import (
	"reflect"
	"testing"
	"time"
)

// fp is a shared test helper for optional float fields.
func fp(v float64) *float64 { return &v }

func ip(v int) *int { return &v }

func TestParseAllergyTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "Caffeine", []string{"caffeine"}},
		{"commas and semicolons", "Caffeine, Tobacco; shellfish", []string{"caffeine", "tobacco", "shellfish"}},
		{"blanks dropped", " , caffeine ,, ", []string{"caffeine"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAllergyTokens(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAllergyTokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsAllergic(t *testing.T) {
	tests := []struct {
		name      string
		allergies string
		substance Substance
		want      bool
	}{
		{"nil-equivalent empty", "", Caffeine, false},
		{"direct match", "caffeine", Caffeine, true},
		{"alias match", "coffee", Caffeine, true},
		{"amphetamine covers adderall", "amphetamine", Adderall, true},
		{"amphetamine covers dexedrine", "amphetamine", Dexedrine, true},
		{"token containing keyword", "dexedrine tablets", Dexedrine, true},
		{"keyword containing token", "caf", Caffeine, true},
		{"unrelated", "shellfish, penicillin", Nicotine, false},
		{"tobacco matches nicotine", "tobacco", Nicotine, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &HealthProfile{Allergies: tt.allergies}
			if got := IsAllergic(p, tt.substance); got != tt.want {
				t.Errorf("IsAllergic(%q, %s) = %v, want %v", tt.allergies, tt.substance, got, tt.want)
			}
		})
	}

	if IsAllergic(nil, Caffeine) {
		t.Error("nil profile should never be allergic")
	}
}

func TestWeightBasedCaffeineMaxMg(t *testing.T) {
	nan := fp(0)
	*nan = *nan / *nan

	tests := []struct {
		name   string
		weight *float64
		wantMg float64
		wantOK bool
	}{
		{"absent", nil, 0, false},
		{"60 kg", fp(60), 330, true},
		{"70 kg", fp(70), 385, true},
		{"heavy capped at 400", fp(90), 400, true},
		{"zero", fp(0), 0, false},
		{"negative", fp(-70), 0, false},
		{"NaN", nan, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mg, ok := WeightBasedCaffeineMaxMg(&HealthProfile{WeightKg: tt.weight})
			if ok != tt.wantOK || mg != tt.wantMg {
				t.Errorf("got (%v, %v), want (%v, %v)", mg, ok, tt.wantMg, tt.wantOK)
			}
		})
	}

	if _, ok := WeightBasedCaffeineMaxMg(nil); ok {
		t.Error("nil profile should not produce a weight cap")
	}
}

func TestPersonalizedHalfLife(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		profile *HealthProfile
		want    float64
	}{
		{"nil profile", nil, 5.0},
		{"empty profile", &HealthProfile{}, 5.0},
		{"smoker clears faster", &HealthProfile{SmokingStatus: SmokingSmoker}, 3.0},
		{"fluvoxamine slows clearance", &HealthProfile{Medications: "fluvoxamine 50mg"}, 15.0},
		{"ciprofloxacin slows clearance", &HealthProfile{Medications: "Ciprofloxacin"}, 15.0},
		{"contraceptive for female", &HealthProfile{Sex: SexFemale, Medications: "birth control"}, 10.0},
		{"contraceptive ignored for male", &HealthProfile{Sex: SexMale, Medications: "birth control"}, 5.0},
		{"smoking beats inhibitor", &HealthProfile{SmokingStatus: SmokingSmoker, Medications: "fluvoxamine"}, 3.0},
		{"inhibitor beats contraceptive", &HealthProfile{Sex: SexFemale, Medications: "fluvoxamine, birth control"}, 15.0},
		{"age 65 applies alone", &HealthProfile{BirthYear: ip(1960)}, 6.5},
		{"age stacks on smoking", &HealthProfile{SmokingStatus: SmokingSmoker, BirthYear: ip(1955)}, 3.9},
		{"under 65 unadjusted", &HealthProfile{BirthYear: ip(1990)}, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PersonalizedHalfLife(Caffeine, tt.profile, now); got != tt.want {
				t.Errorf("PersonalizedHalfLife(caffeine) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPersonalizedHalfLifeOnlyCaffeine(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &HealthProfile{SmokingStatus: SmokingSmoker, Medications: "fluvoxamine", BirthYear: ip(1950)}

	if got := PersonalizedHalfLife(Adderall, p, now); got != 10.0 {
		t.Errorf("adderall half-life = %v, want base 10.0", got)
	}
	if got := PersonalizedHalfLife(Nicotine, p, now); got != 2.0 {
		t.Errorf("nicotine half-life = %v, want base 2.0", got)
	}
}

func TestAllPersonalizedHalfLives(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := AllPersonalizedHalfLives(&HealthProfile{SmokingStatus: SmokingSmoker}, now)

	if len(got) != len(AllSubstances()) {
		t.Fatalf("got %d entries, want %d", len(got), len(AllSubstances()))
	}
	if got[Caffeine] != 3.0 {
		t.Errorf("caffeine = %v, want personalized 3.0", got[Caffeine])
	}
	if got[Dexedrine] != 10.5 {
		t.Errorf("dexedrine = %v, want base 10.5", got[Dexedrine])
	}
}
