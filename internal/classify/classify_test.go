package classify

import (
	"testing"
	"time"

	"reservas/internal/calendar"
	"reservas/internal/models"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name        string
		summary     string
		description string
		expected    models.EventClass
	}{
		{"closed keyword", "CERRADO por vacaciones", "", models.ClassClosed},
		{"closed lowercase", "cerrado", "", models.ClassClosed},
		{"blocked keyword", "Bloqueo terraza", "", models.ClassBlocked},
		{"reservation keyword", "Reserva - Ana - PAX=4", "", models.ClassReservation},
		{"keyword in description", "", "reserva telefonica", models.ClassReservation},
		{"no keyword", "Staff meeting", "bring notes", models.ClassOther},
		// Priority: first match in rule order wins.
		{"closed beats reservation", "CERRADO - no reservas", "", models.ClassClosed},
		{"blocked beats reservation", "BLOQUEO de reservas", "", models.ClassBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &calendar.Event{Summary: tt.summary, Description: tt.description}
			if got := c.Classify(event); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClassifyCustomRules(t *testing.T) {
	c := New([]Rule{
		{Contains: "FERMÉ", Class: models.ClassClosed},
		{Contains: "RÉSERVATION", Class: models.ClassReservation},
	})

	event := &calendar.Event{Summary: "Fermé le lundi"}
	if got := c.Classify(event); got != models.ClassClosed {
		t.Errorf("expected closed, got %s", got)
	}

	// Default Spanish keywords no longer apply.
	event = &calendar.Event{Summary: "CERRADO"}
	if got := c.Classify(event); got != models.ClassOther {
		t.Errorf("expected other, got %s", got)
	}
}

func TestParsePax(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		expected int
	}{
		{"standard token", "Reserva - Ana - PAX=4", 4},
		{"whitespace around equals", "Reserva PAX = 12", 12},
		{"lowercase", "reserva pax=6", 6},
		{"first match wins", "PAX=3 corregido PAX=5", 3},
		{"absent", "Reserva - Ana", 0},
		{"no number", "PAX=", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &calendar.Event{Summary: tt.summary}
			if got := ParsePax(event); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	c := New(nil)

	t.Run("precise dateTime converted into timezone", func(t *testing.T) {
		event := &calendar.Event{
			ID:      "e1",
			Summary: "Reserva - Ana - PAX=4",
			Start:   calendar.EventTime{DateTime: "2026-03-14T12:00:00Z"},
			End:     calendar.EventTime{DateTime: "2026-03-14T13:30:00Z"},
		}
		rec := c.Normalize(event, madrid)
		if rec == nil {
			t.Fatal("expected record, got nil")
		}
		if rec.Class != models.ClassReservation || rec.Pax != 4 {
			t.Errorf("unexpected record: %+v", rec)
		}
		// 12:00Z is 13:00 in Madrid (CET+1 winter time).
		if got := rec.Start.Format("15:04"); got != "13:00" {
			t.Errorf("expected start 13:00 local, got %s", got)
		}
		if rec.Start.Location() != madrid {
			t.Error("start not resolved into restaurant timezone")
		}
	})

	t.Run("all-day date becomes local midnight", func(t *testing.T) {
		event := &calendar.Event{
			ID:      "e2",
			Summary: "CERRADO",
			Start:   calendar.EventTime{Date: "2026-03-14"},
			End:     calendar.EventTime{Date: "2026-03-15"},
		}
		rec := c.Normalize(event, madrid)
		if rec == nil {
			t.Fatal("expected record, got nil")
		}
		if got := rec.Start.Format("2006-01-02 15:04"); got != "2026-03-14 00:00" {
			t.Errorf("expected local midnight, got %s", got)
		}
		if rec.End.Sub(rec.Start) != 24*time.Hour {
			t.Errorf("expected 24h span, got %v", rec.End.Sub(rec.Start))
		}
	})

	t.Run("fails closed on unresolvable endpoints", func(t *testing.T) {
		missingEnd := &calendar.Event{
			Start: calendar.EventTime{DateTime: "2026-03-14T12:00:00Z"},
		}
		if rec := c.Normalize(missingEnd, madrid); rec != nil {
			t.Errorf("expected nil for missing end, got %+v", rec)
		}

		garbage := &calendar.Event{
			Start: calendar.EventTime{DateTime: "not-a-time"},
			End:   calendar.EventTime{DateTime: "2026-03-14T13:00:00Z"},
		}
		if rec := c.Normalize(garbage, madrid); rec != nil {
			t.Errorf("expected nil for malformed start, got %+v", rec)
		}
	})
}

func TestNormalizeAllDropsMalformed(t *testing.T) {
	c := New(nil)
	events := []calendar.Event{
		{
			ID:    "good",
			Start: calendar.EventTime{DateTime: "2026-03-14T12:00:00Z"},
			End:   calendar.EventTime{DateTime: "2026-03-14T13:00:00Z"},
		},
		{ID: "bad"}, // no endpoints at all
	}

	records := c.NormalizeAll(events, time.UTC)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != "good" {
		t.Errorf("wrong record survived: %s", records[0].ID)
	}
}
