package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// DayUTC truncates a unix timestamp to its UTC calendar day.
func DayUTC(unix int64) time.Time {
	t := time.Unix(unix, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// WindowStart returns the start of a trailing window of days ending at now.
func WindowStart(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

// FileStamp formats t for file names, e.g. 20240102_1504UTC.
func FileStamp(t time.Time) string {
	return t.UTC().Format("20060102_1504") + "UTC"
}

// DisplayStamp formats t for headings, e.g. 2024-01-02_1504UTC.
func DisplayStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02_1504") + "UTC"
}
