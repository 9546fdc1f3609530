// Package schedule decides which calendar days a periodic action runs on.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ShouldRun reports whether day matches the schedule spec. Specs are
// case-insensitive and whitespace-trimmed: "daily", "first_day",
// "last_day", a weekday name, or a numeric day of month. Anything else is
// false. The function is pure; callers pass time.Now() for the live
// decision.
func ShouldRun(spec string, day time.Time) bool {
	spec = strings.ToLower(strings.TrimSpace(spec))
	switch spec {
	case "daily":
		return true
	case "first_day":
		return day.Day() == 1
	case "last_day":
		// Last calendar day of the month: tomorrow is the 1st.
		return day.AddDate(0, 0, 1).Day() == 1
	}
	if wd, ok := weekdays[spec]; ok {
		return day.Weekday() == wd
	}
	if n, err := strconv.Atoi(spec); err == nil {
		return day.Day() == n
	}
	return false
}
