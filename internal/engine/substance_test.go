package engine

import "testing"

func TestConfigFor(t *testing.T) {
	for _, s := range AllSubstances() {
		cfg, err := ConfigFor(s)
		if err != nil {
			t.Fatalf("ConfigFor(%s) returned error: %v", s, err)
		}
		if cfg.Label == "" || cfg.HalfLifeHours <= 0 || cfg.DefaultDoseMg <= 0 {
			t.Errorf("ConfigFor(%s) returned incomplete config: %+v", s, cfg)
		}
	}

	if _, err := ConfigFor("modafinil"); err == nil {
		t.Fatal("ConfigFor with unknown substance should fail")
	}
}

func TestConfigValues(t *testing.T) {
	tests := []struct {
		substance Substance
		halfLife  float64
		peak      float64
		defaultMg float64
	}{
		{Caffeine, 5.0, 0.75, 95},
		{Adderall, 10.0, 3.0, 10},
		{Dexedrine, 10.5, 3.0, 10},
		{Nicotine, 2.0, 0.25, 1.0},
	}

	for _, tt := range tests {
		cfg, err := ConfigFor(tt.substance)
		if err != nil {
			t.Fatalf("ConfigFor(%s): %v", tt.substance, err)
		}
		if cfg.HalfLifeHours != tt.halfLife {
			t.Errorf("%s half-life = %v, want %v", tt.substance, cfg.HalfLifeHours, tt.halfLife)
		}
		if cfg.PeakHours != tt.peak {
			t.Errorf("%s peak = %v, want %v", tt.substance, cfg.PeakHours, tt.peak)
		}
		if cfg.DefaultDoseMg != tt.defaultMg {
			t.Errorf("%s default dose = %v, want %v", tt.substance, cfg.DefaultDoseMg, tt.defaultMg)
		}
	}
}

func TestModeParamsStayWithinLimits(t *testing.T) {
	for _, s := range AllSubstances() {
		cfg, _ := ConfigFor(s)
		for _, mode := range []Mode{ModeHealth, ModeProductivity} {
			mp := cfg.ModeParams(mode)
			if mp.MaxDosesPerDay > cfg.Limits.MaxDosesPerDay {
				t.Errorf("%s/%s: MaxDosesPerDay %d exceeds limit %d", s, mode, mp.MaxDosesPerDay, cfg.Limits.MaxDosesPerDay)
			}
			if mp.MaxMgPerDay > cfg.Limits.MaxMgPerDay {
				t.Errorf("%s/%s: MaxMgPerDay %v exceeds limit %v", s, mode, mp.MaxMgPerDay, cfg.Limits.MaxMgPerDay)
			}
			if mp.SpacingHours < cfg.Limits.MinSpacingHours {
				t.Errorf("%s/%s: SpacingHours %v under minimum %v", s, mode, mp.SpacingHours, cfg.Limits.MinSpacingHours)
			}
			if mp.CutoffHoursBeforeSleep < cfg.Limits.MinCutoffHoursBeforeSleep {
				t.Errorf("%s/%s: cutoff %v under minimum %v", s, mode, mp.CutoffHoursBeforeSleep, cfg.Limits.MinCutoffHoursBeforeSleep)
			}
		}
	}
}

func TestModeParamsDefaultsToHealth(t *testing.T) {
	cfg, _ := ConfigFor(Caffeine)
	if got := cfg.ModeParams("nonsense"); got != cfg.Health {
		t.Errorf("unknown mode returned %+v, want health params %+v", got, cfg.Health)
	}
}

func TestGovernmentLimits(t *testing.T) {
	limits := GovernmentLimits()
	if len(limits) != len(AllSubstances()) {
		t.Fatalf("GovernmentLimits returned %d entries, want %d", len(limits), len(AllSubstances()))
	}
	if l := limits[Caffeine]; l.MaxMgPerDay != 400 || l.MaxDosesPerDay != 6 {
		t.Errorf("caffeine limits = %+v, want 400 mg / 6 doses", l)
	}
	if l := limits[Adderall]; l.MaxMgPerDay != 60 || l.MaxDosesPerDay != 3 {
		t.Errorf("adderall limits = %+v, want 60 mg / 3 doses", l)
	}
}

func TestResolvedMg(t *testing.T) {
	nan := fp(0)
	*nan = *nan / *nan // NaN without importing math here

	tests := []struct {
		name string
		log  DoseLog
		want float64
	}{
		{"nil amount uses default", DoseLog{Substance: Caffeine}, 95},
		{"explicit amount kept", DoseLog{Substance: Caffeine, AmountMg: fp(150)}, 150},
		{"explicit zero stays zero", DoseLog{Substance: Caffeine, AmountMg: fp(0)}, 0},
		{"negative falls back to default", DoseLog{Substance: Caffeine, AmountMg: fp(-10)}, 95},
		{"NaN falls back to default", DoseLog{Substance: Caffeine, AmountMg: nan}, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.log.ResolvedMg(); got != tt.want {
				t.Errorf("ResolvedMg() = %v, want %v", got, tt.want)
			}
		})
	}
}
