package utils

import (
	"fmt"
	"time"
)

// DateLayout is the yyyy-mm-dd format used for contract dates
const DateLayout = "2006-01-02"

// CivilDate drops the time of day, keeping the calendar date as seen in t's
// own location, and pins it to UTC midnight so day differences are exact
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate converts a yyyy-mm-dd formatted string into a civil date
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %w", err)
	}
	return t, nil
}

// DaysBetween counts whole days from one civil date to another. It is negative
// when to is before from. Partial days are truncated, never rounded up.
func DaysBetween(from, to time.Time) int32 {
	return int32(CivilDate(to).Sub(CivilDate(from)) / (24 * time.Hour))
}

// LineSubtotalCents is the charge for one order line: rate * quantity * days
func LineSubtotalCents(dailyRateCents int64, quantity, days int32) int64 {
	if quantity <= 0 || days <= 0 {
		return 0
	}
	return dailyRateCents * int64(quantity) * int64(days)
}
