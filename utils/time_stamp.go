package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DayStart returns UTC midnight of the calendar day containing t.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatTimestamp converts a time to a human-friendly millisecond string.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000")
}

// RunID returns a custom run identifier:
//
//	<prefix> HH:MM:SS <short-uuid>
func RunID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s %s %s", prefix, now.Format("15:04:05"), uuid.NewString()[:8])
}
