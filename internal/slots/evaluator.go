package slots

import (
	"time"

	"reservas/internal/models"
)

// Evaluation is the outcome of checking one candidate slot. TotalPax counts
// blocked/reservation occupancy overlapping the slot; it excludes the
// requesting party and `other` events.
type Evaluation struct {
	Available bool
	TotalPax  int
}

// isOverlapping tests two half-open intervals [s1,e1) and [s2,e2). The
// inequalities are strict: back-to-back intervals touching at a boundary do
// not overlap.
func isOverlapping(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// Evaluate decides whether a party fits in the slot [start, start+duration)
// given the day's occupancy records and the effective capacity. A closed
// event overlapping the slot makes it unavailable outright and stops the
// scan; blocked and reservation events consume capacity by their pax.
func Evaluate(start time.Time, duration time.Duration, party, capacityMax int, records []models.OccupancyRecord) Evaluation {
	end := start.Add(duration)

	totalPax := 0
	closed := false
	for i := range records {
		rec := &records[i]
		if !isOverlapping(rec.Start, rec.End, start, end) {
			continue
		}
		if rec.Class == models.ClassClosed {
			closed = true
			break
		}
		if rec.CountsTowardOccupancy() {
			totalPax += rec.Pax
		}
	}

	return Evaluation{
		Available: !closed && totalPax+party <= capacityMax,
		TotalPax:  totalPax,
	}
}
