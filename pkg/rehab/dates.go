package rehab

import (
	"fmt"
	"time"
)

// DateLayout is the layout of date keys (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

const displayLayout = "Mon, Jan 2, 2006"

// DateKey returns the calendar day of t in t's own location, e.g. "2024-01-07".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a date key into midnight UTC of that calendar day. Keys are
// compared as whole days in UTC so that day arithmetic never crosses a DST change.
func ParseDateKey(key string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date key %q: %w", key, err)
	}

	return day, nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	day, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}

	return DateKey(day.AddDate(0, 0, n)), nil
}

// FormatDisplay renders a date key for people, e.g. "Sun, Jan 7, 2024". Malformed keys
// are returned unchanged.
func FormatDisplay(key string) string {
	day, err := ParseDateKey(key)
	if err != nil {
		return key
	}

	return day.Format(displayLayout)
}

// calendarDay strips the time of day from t, keeping t's calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
