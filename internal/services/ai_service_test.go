package services

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"substance":"caffeine"}`, `{"substance":"caffeine"}`},
		{"code fence", "```json\n{\"substance\":\"caffeine\"}\n```", `{"substance":"caffeine"}`},
		{"surrounding prose", `Sure! {"a":1} Hope that helps.`, `{"a":1}`},
		{"no object", "cannot parse that", ""},
		{"brace order wrong", "} {", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDoseJSON(t *testing.T) {
	result, err := parseDoseJSON("```json\n" +
		`{"substance":" Caffeine ","amount_mg":126,"minutes_ago":15,"confidence":"high","explanation":"two espresso shots"}` +
		"\n```")
	if err != nil {
		t.Fatalf("parseDoseJSON: %v", err)
	}
	if result.Substance != "caffeine" {
		t.Errorf("substance = %q, want normalized \"caffeine\"", result.Substance)
	}
	if result.AmountMg != 126 || result.MinutesAgo != 15 {
		t.Errorf("amount/minutes = %v/%d, want 126/15", result.AmountMg, result.MinutesAgo)
	}

	if _, err := parseDoseJSON(`{"substance":"caffeine","amount_mg":0}`); err == nil {
		t.Fatal("zero amount should be rejected")
	}
	if _, err := parseDoseJSON("no json here"); err == nil {
		t.Fatal("missing JSON should be rejected")
	}

	// Negative minutes-ago clamps to zero rather than logging in the future.
	result, err = parseDoseJSON(`{"substance":"nicotine","amount_mg":1,"minutes_ago":-5}`)
	if err != nil {
		t.Fatalf("parseDoseJSON: %v", err)
	}
	if result.MinutesAgo != 0 {
		t.Errorf("minutes ago = %d, want clamped 0", result.MinutesAgo)
	}
}
