package engine

import "testing"

func activeIDs(active []ActiveInteraction) []string {
	ids := make([]string, 0, len(active))
	for _, a := range active {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestActiveInteractionsSubstancePairs(t *testing.T) {
	tests := []struct {
		name    string
		enabled []Substance
		logged  []Substance
		wantIDs []string
	}{
		{"single substance fires nothing", []Substance{Caffeine}, nil, nil},
		{"caffeine with adderall", []Substance{Caffeine, Adderall}, nil, []string{"caffeine-adderall"}},
		{"union with today's logs", []Substance{Caffeine}, []Substance{Adderall}, []string{"caffeine-adderall"}},
		{"caffeine with nicotine", []Substance{Caffeine, Nicotine}, nil, []string{"caffeine-nicotine"}},
		{
			"everything enabled fires all pair rules in declaration order",
			AllSubstances(), nil,
			[]string{"caffeine-adderall", "caffeine-dexedrine", "caffeine-nicotine", "amphetamine-stacking", "amphetamine-stacking-dex"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := activeIDs(ActiveInteractions(tt.enabled, nil, tt.logged))
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("rule %d = %s, want %s", i, got[i], tt.wantIDs[i])
				}
			}
		})
	}
}

func TestActiveInteractionsMedications(t *testing.T) {
	tests := []struct {
		name    string
		meds    string
		enabled []Substance
		wantIDs []string
	}{
		{"maoi with caffeine", "phenelzine", []Substance{Caffeine}, []string{"maoi-stimulants"}},
		{"ssri without amphetamines stays quiet", "sertraline", []Substance{Caffeine}, nil},
		{"ssri with adderall", "sertraline", []Substance{Adderall}, []string{"ssri-amphetamines"}},
		{"lithium with caffeine", "Lithium carbonate", []Substance{Caffeine}, []string{"lithium-caffeine"}},
		{"bupropion with nicotine", "Wellbutrin XL", []Substance{Nicotine}, []string{"bupropion-nicotine"}},
		{"no medication text", "", []Substance{Caffeine}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &HealthProfile{Medications: tt.meds}
			got := activeIDs(ActiveInteractions(tt.enabled, p, nil))
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("rule %d = %s, want %s", i, got[i], tt.wantIDs[i])
				}
			}
		})
	}
}

func TestActiveInteractionsSubstanceRulesFirst(t *testing.T) {
	p := &HealthProfile{Medications: "phenelzine"}
	got := activeIDs(ActiveInteractions([]Substance{Caffeine, Adderall}, p, nil))

	want := []string{"caffeine-adderall", "maoi-stimulants"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("rule %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestInteractionAdjustments(t *testing.T) {
	all := ActiveInteractions(AllSubstances(), nil, nil)

	// Two 0.5 ceiling rules on caffeine compose multiplicatively, and the
	// nicotine rule shortens its half-life.
	hl, mg := InteractionAdjustments(all, Caffeine)
	if hl != 0.8 {
		t.Errorf("caffeine half-life multiplier = %v, want 0.8", hl)
	}
	if mg != 0.25 {
		t.Errorf("caffeine mg multiplier = %v, want 0.25", mg)
	}

	hl, mg = InteractionAdjustments(all, Adderall)
	if hl != 1.0 || mg != 0.5 {
		t.Errorf("adderall adjustments = (%v, %v), want (1.0, 0.5)", hl, mg)
	}

	// No active rules means identity.
	hl, mg = InteractionAdjustments(nil, Caffeine)
	if hl != 1.0 || mg != 1.0 {
		t.Errorf("empty adjustments = (%v, %v), want identity", hl, mg)
	}
}
