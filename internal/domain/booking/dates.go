package booking

import "time"

// DayStart truncates t to midnight in its own location. All calendar
// comparisons in this package happen on day-start values.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

// InclusiveDays returns the number of calendar days in [start, end], both
// ends counted. A single-day range is 1.
func InclusiveDays(start, end time.Time) int {
	s, e := DayStart(start), DayStart(end)
	return int(e.Sub(s).Hours()/24) + 1
}
