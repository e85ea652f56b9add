package timeutil

import (
	"testing"
	"time"
)

func TestRelative(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{
			name:     "zero timestamp",
			ts:       time.Time{},
			expected: "",
		},
		{
			name:     "seconds ago",
			ts:       now.Add(-30 * time.Second),
			expected: "just now",
		},
		{
			name:     "future timestamp clamps to now",
			ts:       now.Add(5 * time.Minute),
			expected: "just now",
		},
		{
			name:     "minutes",
			ts:       now.Add(-12 * time.Minute),
			expected: "12m",
		},
		{
			name:     "hours",
			ts:       now.Add(-3 * time.Hour),
			expected: "3h",
		},
		{
			name:     "days",
			ts:       now.Add(-2 * 24 * time.Hour),
			expected: "2d",
		},
		{
			name:     "same year date",
			ts:       time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC),
			expected: "Jan 15",
		},
		{
			name:     "previous year date",
			ts:       time.Date(2024, time.November, 3, 8, 0, 0, 0, time.UTC),
			expected: "Nov 3, 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.ts, now); got != tt.expected {
				t.Errorf("Relative() = %q, want %q", got, tt.expected)
			}
		})
	}
}
