package scheduling

import (
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNextStreak(t *testing.T) {
	today := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prev     int
		last     *time.Time
		expected int
	}{
		{"extends after exactly one day", 3, datePtr(2024, 3, 14), 4},
		{"restarts with no prior completion", 5, nil, 1},
		{"restarts after two day gap", 7, datePtr(2024, 3, 13), 1},
		{"restarts after long gap", 12, datePtr(2024, 1, 2), 1},
		{"same day completion restarts", 3, datePtr(2024, 3, 15), 1},
		{"zero streak extends to one plus", 0, datePtr(2024, 3, 14), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextStreak(tc.prev, tc.last, today)
			if got != tc.expected {
				t.Errorf("Expected streak %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestIsStale(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		last     *time.Time
		expected bool
	}{
		{"nil last date is stale", nil, true},
		{"yesterday is not stale", datePtr(2024, 3, 14), false},
		{"today is not stale", datePtr(2024, 3, 15), false},
		{"two days ago is stale", datePtr(2024, 3, 13), true},
		{"weeks ago is stale", datePtr(2024, 2, 1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsStale(tc.last, today)
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

// Completing on day D with lastPOTDDate = D-1 takes the streak from 3 to 4;
// skipping a day then running the reset pass drops it to 0.
func TestStreakScenario(t *testing.T) {
	dayD := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	last := datePtr(2024, 6, 9)

	streak := NextStreak(3, last, dayD)
	if streak != 4 {
		t.Fatalf("Expected streak 4 after completion, got %d", streak)
	}

	// User completes on day D, skips D+1. The reset pass on D+2 sees a
	// two-day-old lastPOTDDate and resets.
	completedOn := DayStart(dayD)
	resetDay := dayD.AddDate(0, 0, 2)
	if !IsStale(&completedOn, resetDay) {
		t.Fatalf("Expected streak to be stale two days after last completion")
	}

	// The reset pass on D+1 alone leaves the streak untouched.
	if IsStale(&completedOn, dayD.AddDate(0, 0, 1)) {
		t.Fatalf("Expected streak from yesterday to survive the reset pass")
	}
}
