package services

import (
	"testing"
	"time"
)

func TestResolveSleepBy(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name    string
		now     time.Time
		sleepBy string
		want    time.Time
	}{
		{
			"later today",
			time.Date(2025, 6, 1, 10, 0, 0, 0, loc), "23:00",
			time.Date(2025, 6, 1, 23, 0, 0, 0, loc),
		},
		{
			"already past rolls to tomorrow",
			time.Date(2025, 6, 1, 23, 30, 0, 0, loc), "23:00",
			time.Date(2025, 6, 2, 23, 0, 0, 0, loc),
		},
		{
			"exactly now stays today",
			time.Date(2025, 6, 1, 23, 0, 0, 0, loc), "23:00",
			time.Date(2025, 6, 1, 23, 0, 0, 0, loc),
		},
		{
			"garbage falls back to 23:00",
			time.Date(2025, 6, 1, 10, 0, 0, 0, loc), "bedtime-ish",
			time.Date(2025, 6, 1, 23, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveSleepBy(tt.now, tt.sleepBy); !got.Equal(tt.want) {
				t.Errorf("resolveSleepBy(%v, %q) = %v, want %v", tt.now, tt.sleepBy, got, tt.want)
			}
		})
	}
}
