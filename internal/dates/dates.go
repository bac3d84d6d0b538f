// Package dates provides calendar-day arithmetic over ISO "YYYY-MM-DD"
// strings. All math happens on UTC midnights so day differences are exact
// integers regardless of the host timezone or DST transitions.
package dates

import "time"

const isoDay = "2006-01-02"

func parse(iso string) (time.Time, bool) {
	t, err := time.Parse(isoDay, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayDiff returns the number of calendar days from b to a (a minus b).
// The second return is false when either input is empty or unparseable.
func DayDiff(a, b string) (int, bool) {
	ta, ok := parse(a)
	if !ok {
		return 0, false
	}
	tb, ok := parse(b)
	if !ok {
		return 0, false
	}
	return int(ta.Sub(tb) / (24 * time.Hour)), true
}

// AddDays returns the ISO date n days after iso (n may be negative).
// Returns the empty string when iso is unparseable.
func AddDays(iso string, n int) string {
	t, ok := parse(iso)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, n).Format(isoDay)
}

// MonthBucket returns the "YYYY-MM" bucket of an ISO date, or the empty
// string when iso is unparseable.
func MonthBucket(iso string) string {
	t, ok := parse(iso)
	if !ok {
		return ""
	}
	return t.Format("2006-01")
}

// Today returns the current local calendar day as an ISO date.
func Today() string {
	return time.Now().Format(isoDay)
}
