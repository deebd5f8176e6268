// Package slots holds the pure slot engine: candidate generation over a
// turno and per-slot evaluation against a day's occupancy records. Nothing
// here touches the calendar provider or the clock.
package slots

import (
	"fmt"
	"time"

	"reservas/internal/localtime"
	"reservas/internal/models"
)

// Generate produces the ordered candidate start instants for a turno on the
// given date. The first candidate is the turno start; each next one steps by
// the slot interval; the last valid start still fits a full reservation
// before the turno end (a slot ending exactly at the turno end is valid).
// Returns nil when no slot fits.
func Generate(turno *models.Turno, date time.Time, duration, interval time.Duration) ([]time.Time, error) {
	if duration <= 0 || interval <= 0 {
		return nil, fmt.Errorf("duration and interval must be positive")
	}

	start, err := localtime.OnDate(date, turno.Start)
	if err != nil {
		return nil, fmt.Errorf("turno %s: %w", turno.Name, err)
	}
	end, err := localtime.OnDate(date, turno.End)
	if err != nil {
		return nil, fmt.Errorf("turno %s: %w", turno.Name, err)
	}

	lastStart := end.Add(-duration)

	var candidates []time.Time
	for cursor := start; cursor.Before(lastStart) || cursor.Equal(lastStart); cursor = cursor.Add(interval) {
		candidates = append(candidates, cursor)
	}
	return candidates, nil
}
