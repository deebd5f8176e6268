package models

import (
	"fmt"
	"time"
)

// EventClass is the occupancy classification of a calendar event.
type EventClass string

const (
	ClassClosed      EventClass = "closed"
	ClassBlocked     EventClass = "blocked"
	ClassReservation EventClass = "reservation"
	ClassOther       EventClass = "other"
)

// Turno is a named service window (e.g. lunch, dinner) within a single day.
type Turno struct {
	Name        string `yaml:"name" json:"name"`
	Start       string `yaml:"start" json:"start"` // "HH:mm"
	End         string `yaml:"end" json:"end"`     // "HH:mm"
	CapacityMax int    `yaml:"capacity_max" json:"capacity_max,omitempty"`
}

// Restaurant is the static per-restaurant configuration.
type Restaurant struct {
	Slug                       string  `yaml:"slug" json:"slug"`
	Name                       string  `yaml:"name" json:"name"`
	Timezone                   string  `yaml:"timezone" json:"timezone"`
	CalendarID                 string  `yaml:"calendar_id" json:"calendar_id"`
	CapacityMax                int     `yaml:"capacity_max" json:"capacity_max"`
	SlotIntervalMinutes        int     `yaml:"slot_interval_minutes" json:"slot_interval_minutes"`
	ReservationDurationMinutes int     `yaml:"reservation_duration_minutes" json:"reservation_duration_minutes"`
	Turnos                     []Turno `yaml:"turnos" json:"turnos"`
}

// ReservationDuration returns the reservation length as a duration.
func (r *Restaurant) ReservationDuration() time.Duration {
	return time.Duration(r.ReservationDurationMinutes) * time.Minute
}

// SlotInterval returns the slot step as a duration.
func (r *Restaurant) SlotInterval() time.Duration {
	return time.Duration(r.SlotIntervalMinutes) * time.Minute
}

// Location resolves the restaurant's IANA timezone.
func (r *Restaurant) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: invalid timezone %q: %w", r.Slug, r.Timezone, err)
	}
	return loc, nil
}

// EffectiveCapacity returns the turno capacity override, or the restaurant
// default when the turno has none.
func (r *Restaurant) EffectiveCapacity(t *Turno) int {
	if t != nil && t.CapacityMax > 0 {
		return t.CapacityMax
	}
	return r.CapacityMax
}

// Validate checks the invariants the engine relies on. A restaurant that
// fails validation must never reach the availability service.
func (r *Restaurant) Validate() error {
	if r.Slug == "" {
		return fmt.Errorf("restaurant slug is required")
	}
	if r.CalendarID == "" {
		return fmt.Errorf("restaurant %s: calendar_id is required", r.Slug)
	}
	if r.CapacityMax <= 0 {
		return fmt.Errorf("restaurant %s: capacity_max must be positive", r.Slug)
	}
	if r.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("restaurant %s: slot_interval_minutes must be positive", r.Slug)
	}
	if r.ReservationDurationMinutes <= 0 {
		return fmt.Errorf("restaurant %s: reservation_duration_minutes must be positive", r.Slug)
	}
	if _, err := r.Location(); err != nil {
		return err
	}
	if len(r.Turnos) == 0 {
		return fmt.Errorf("restaurant %s: at least one turno is required", r.Slug)
	}
	for i := range r.Turnos {
		if err := r.Turnos[i].Validate(); err != nil {
			return fmt.Errorf("restaurant %s: %w", r.Slug, err)
		}
	}
	return nil
}

// Validate checks the turno invariants: HH:mm bounds and start < end within
// the same day (a turno never spans midnight).
func (t *Turno) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("turno name is required")
	}
	start, err := parseClock(t.Start)
	if err != nil {
		return fmt.Errorf("turno %s: invalid start: %w", t.Name, err)
	}
	end, err := parseClock(t.End)
	if err != nil {
		return fmt.Errorf("turno %s: invalid end: %w", t.Name, err)
	}
	if start >= end {
		return fmt.Errorf("turno %s: start %s must be before end %s", t.Name, t.Start, t.End)
	}
	return nil
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("expected HH:mm, got %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value out of range: %q", s)
	}
	return h*60 + m, nil
}

// OccupancyRecord is a calendar event reinterpreted for one availability
// computation: both instants resolved into the restaurant timezone, a single
// classification and an extracted party size. Never persisted.
type OccupancyRecord struct {
	ID    string
	Start time.Time
	End   time.Time
	Class EventClass
	Pax   int
}

// CountsTowardOccupancy reports whether the record's pax is added to a
// slot's running total. `other` events are operational noise and `closed`
// makes a slot unavailable outright rather than consuming capacity.
func (o *OccupancyRecord) CountsTowardOccupancy() bool {
	return o.Class == ClassBlocked || o.Class == ClassReservation
}

// Slot is a single bookable start time with its evaluation result.
type Slot struct {
	Start     time.Time `json:"-"`
	Time      string    `json:"time"` // "HH:mm" in restaurant local time
	Available bool      `json:"available"`
}

// TurnoSlots groups a turno's slots in chronological order.
type TurnoSlots struct {
	Turno string `json:"turno"`
	Slots []Slot `json:"slots"`
}

// DayAvailability is the full grid for one restaurant and date.
type DayAvailability struct {
	Date           string       `json:"date"`
	Turnos         []TurnoSlots `json:"turnos"`
	AvailableSlots int          `json:"available_slots"`
}

// NextSlot is the earliest available slot found on a later date.
type NextSlot struct {
	Date  string `json:"date"`
	Turno string `json:"turno"`
	Time  string `json:"time"`
}

// SlotCheck is the pre-insert verdict for a single slot. TotalPax counts
// blocked/reservation occupancy only, excluding the requesting party.
type SlotCheck struct {
	Available   bool `json:"available"`
	TotalPax    int  `json:"total_pax"`
	CapacityMax int  `json:"capacity_max"`
}
