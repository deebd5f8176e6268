// Package calendar wraps the external calendar provider. The calendar is the
// system of record for occupancy: the engine only ever reads a day window of
// events and inserts reservation events, it never stores bookings itself.
package calendar

import (
	"context"
	"time"
)

// EventTime carries either a precise instant ("dateTime", RFC3339) or an
// all-day value ("date", YYYY-MM-DD), mirroring the provider payload.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a raw provider event. Owned by the provider; the core only reads
// summary/description/start/end and treats everything else as opaque.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventSource is the provider contract the availability engine depends on.
// ListDay must return events ordered by start time, excluding deleted ones,
// for a single day-bounded window.
type EventSource interface {
	ListDay(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)
	Insert(ctx context.Context, calendarID string, event *Event) (string, error)
}
