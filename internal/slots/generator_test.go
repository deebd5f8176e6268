package slots

import (
	"testing"
	"time"

	"reservas/internal/models"
)

func TestGenerate(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		turno    models.Turno
		duration time.Duration
		interval time.Duration
		expected []string
	}{
		{
			name:     "90 minute reservations every 30 minutes",
			turno:    models.Turno{Name: "Comida", Start: "12:00", End: "15:00"},
			duration: 90 * time.Minute,
			interval: 30 * time.Minute,
			// 13:30+90 = 15:00 is valid; 14:00+90 exceeds the end.
			expected: []string{"12:00", "12:30", "13:00", "13:30"},
		},
		{
			name:     "slot ending exactly at turno end is valid",
			turno:    models.Turno{Name: "Cena", Start: "20:00", End: "22:00"},
			duration: 60 * time.Minute,
			interval: 60 * time.Minute,
			expected: []string{"20:00", "21:00"},
		},
		{
			name:     "nothing fits",
			turno:    models.Turno{Name: "Corto", Start: "12:00", End: "13:00"},
			duration: 90 * time.Minute,
			interval: 30 * time.Minute,
			expected: nil,
		},
		{
			name:     "duration equals turno length",
			turno:    models.Turno{Name: "Unico", Start: "12:00", End: "13:30"},
			duration: 90 * time.Minute,
			interval: 15 * time.Minute,
			expected: []string{"12:00"},
		},
		{
			name:     "15 minute interval",
			turno:    models.Turno{Name: "Comida", Start: "13:00", End: "14:00"},
			duration: 30 * time.Minute,
			interval: 15 * time.Minute,
			expected: []string{"13:00", "13:15", "13:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starts, err := Generate(&tt.turno, date, tt.duration, tt.interval)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(starts) != len(tt.expected) {
				t.Fatalf("expected %d candidates, got %d", len(tt.expected), len(starts))
			}
			for i, start := range starts {
				if got := start.Format("15:04"); got != tt.expected[i] {
					t.Errorf("candidate %d: expected %s, got %s", i, tt.expected[i], got)
				}
			}

			// No candidate may end past the turno end.
			turnoEnd, _ := time.Parse("15:04", tt.turno.End)
			for _, start := range starts {
				end := start.Add(tt.duration)
				endClock := end.Format("15:04")
				if endClock > turnoEnd.Format("15:04") {
					t.Errorf("candidate %s ends at %s, past turno end %s", start.Format("15:04"), endClock, tt.turno.End)
				}
			}
		})
	}
}

func TestGenerateInvalidInputs(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	turno := models.Turno{Name: "Comida", Start: "12:00", End: "15:00"}

	if _, err := Generate(&turno, date, 0, 30*time.Minute); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := Generate(&turno, date, 90*time.Minute, 0); err == nil {
		t.Error("expected error for zero interval")
	}

	bad := models.Turno{Name: "Malo", Start: "nope", End: "15:00"}
	if _, err := Generate(&bad, date, 90*time.Minute, 30*time.Minute); err == nil {
		t.Error("expected error for malformed turno start")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	turno := models.Turno{Name: "Comida", Start: "12:00", End: "15:00"}

	first, err := Generate(&turno, date, 90*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(&turno, date, 90*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("candidate %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}
