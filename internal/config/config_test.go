package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
server:
  port: 3100
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos:
      - name: Comida
        start: "13:00"
        end: "16:00"
      - name: Cena
        start: "20:00"
        end: "23:30"
        capacity_max: 30
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 3100, cfg.Server.Port)
	assert.Equal(t, "la-burger", cfg.DefaultRestaurant)
	assert.Equal(t, 30, cfg.Booking.LookaheadDays)

	r, err := cfg.Restaurant("")
	require.NoError(t, err)
	assert.Equal(t, "la-burger", r.Slug)
	assert.Equal(t, "la-burger", r.Name, "name defaults to slug")
	assert.Equal(t, "Europe/Madrid", r.Timezone)
	assert.Equal(t, 15, r.SlotIntervalMinutes)
	assert.Equal(t, 90, r.ReservationDurationMinutes)

	assert.Equal(t, 40, r.EffectiveCapacity(&r.Turnos[0]))
	assert.Equal(t, 30, r.EffectiveCapacity(&r.Turnos[1]))
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_CALENDAR_ID", "cal-from-env")
	cfg, err := Load(writeConfig(t, `
restaurants:
  - slug: la-burger
    calendar_id: "${TEST_CALENDAR_ID}"
    capacity_max: 40
    turnos:
      - name: Comida
        start: "13:00"
        end: "16:00"
`))
	require.NoError(t, err)

	r, err := cfg.Restaurant("la-burger")
	require.NoError(t, err)
	assert.Equal(t, "cal-from-env", r.CalendarID)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no restaurants", `server: {port: 3000}`},
		{
			"no turnos",
			`
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos: []
`,
		},
		{
			"missing calendar id",
			`
restaurants:
  - slug: la-burger
    capacity_max: 40
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
		{
			"negative capacity",
			`
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: -5
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
		{
			"turno start after end",
			`
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos: [{name: Comida, start: "16:00", end: "13:00"}]
`,
		},
		{
			"invalid timezone",
			`
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    timezone: Mars/Olympus
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
		{
			"duplicate slug",
			`
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
  - slug: la-burger
    calendar_id: cal-2
    capacity_max: 40
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
		{
			"unknown default restaurant",
			`
default_restaurant: otro
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
		{
			"unknown classifier class",
			`
classifier:
  rules: [{contains: CERRADO, class: shuttered}]
restaurants:
  - slug: la-burger
    calendar_id: cal-1
    capacity_max: 40
    turnos: [{name: Comida, start: "13:00", end: "16:00"}]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRestaurantLookup(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	_, err = cfg.Restaurant("nope")
	assert.Error(t, err)
}
