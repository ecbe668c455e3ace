package scheduling

import "time"

// IsStale reports whether a streak must be reset on the daily pass: the user
// has never completed a POTD, or their last completion is more than one
// calendar day before today. The comparison looks backward only; activity on
// the in-progress day never counts.
func IsStale(last *time.Time, today time.Time) bool {
	if last == nil {
		return true
	}
	return DayStart(today).Sub(DayStart(*last)) > 24*time.Hour
}

// NextStreak computes the streak count after a POTD completion on today.
// A gap of exactly one calendar day extends the streak; any other gap
// (same day, two or more days, or no prior completion) starts over at 1.
func NextStreak(prev int, last *time.Time, today time.Time) int {
	if last != nil && DayStart(today).Sub(DayStart(*last)) == 24*time.Hour {
		return prev + 1
	}
	return 1
}
