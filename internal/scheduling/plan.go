package scheduling

import "time"

// DayStart normalizes t to midnight UTC. All revision dates and streak
// comparisons use this as the day reference.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildPlan produces the full revision plan for a question created at base:
// one date per formula offset, normalized to UTC midnight, in formula order.
// The result is a pure function of base and p.
func BuildPlan(base time.Time, p Params) ([]time.Time, error) {
	offsets, err := Offsets(p)
	if err != nil {
		return nil, err
	}

	day := DayStart(base)
	dates := make([]time.Time, len(offsets))
	for i, offset := range offsets {
		dates[i] = day.AddDate(0, 0, offset)
	}
	return dates, nil
}
