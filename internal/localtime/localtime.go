// Package localtime is the single seam between civil time (dates and HH:mm
// clock values in a restaurant's timezone) and instants. Keeping all
// conversions here lets the slot engine stay timezone-agnostic and testable
// with fixed locations.
package localtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" date as midnight in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// ParseClock parses a "HH:mm" value into hour and minute.
func ParseClock(clock string) (hour, minute int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s", clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range: %s", clock)
	}
	return hour, minute, nil
}

// OnDate places a "HH:mm" clock value on the given date in its location.
func OnDate(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// DayBounds returns the [start of day, start of next day) window for a
// "YYYY-MM-DD" date in the given location.
func DayBounds(date string, loc *time.Location) (from, to time.Time, err error) {
	from, err = ParseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, from.AddDate(0, 0, 1), nil
}

// Clock formats an instant as its local "HH:mm" label.
func Clock(t time.Time) string {
	return t.Format("15:04")
}
