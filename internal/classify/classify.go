// Package classify turns raw calendar events into typed occupancy records.
// Classification is a pure function over the event text so it can be tested
// without any provider involved.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"reservas/internal/calendar"
	"reservas/internal/models"
)

var paxRegex = regexp.MustCompile(`(?i)PAX\s*=\s*(\d+)`)

// Rule maps a case-insensitive substring to a classification. Rules are
// checked in order and the first match wins, so an event can never carry
// two classes.
type Rule struct {
	Contains string
	Class    models.EventClass
}

// DefaultRules returns the keyword table the calendars are operated with.
func DefaultRules() []Rule {
	return []Rule{
		{Contains: "CERRADO", Class: models.ClassClosed},
		{Contains: "BLOQUEO", Class: models.ClassBlocked},
		{Contains: "RESERVA", Class: models.ClassReservation},
	}
}

// Classifier applies an ordered rule table to calendar events.
type Classifier struct {
	rules []Rule
}

// New builds a classifier. Empty rule sets fall back to the defaults so a
// config without a classifier section still recognizes reservations.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

func eventText(event *calendar.Event) string {
	return event.Summary + " " + event.Description
}

// Classify returns the first matching class, or `other` when no rule matches.
func (c *Classifier) Classify(event *calendar.Event) models.EventClass {
	text := strings.ToUpper(eventText(event))
	for _, rule := range c.rules {
		if strings.Contains(text, strings.ToUpper(rule.Contains)) {
			return rule.Class
		}
	}
	return models.ClassOther
}

// ParsePax extracts the first "PAX = <n>" token from the event text.
// Absence yields 0.
func ParsePax(event *calendar.Event) int {
	match := paxRegex.FindStringSubmatch(eventText(event))
	if match == nil {
		return 0
	}
	pax, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return pax
}

// Normalize resolves a raw event into an occupancy record in the given
// location. Returns nil when either endpoint cannot be resolved to an
// instant; the caller drops such events rather than failing the whole
// computation.
func (c *Classifier) Normalize(event *calendar.Event, loc *time.Location) *models.OccupancyRecord {
	start, ok := resolveInstant(event.Start, loc)
	if !ok {
		return nil
	}
	end, ok := resolveInstant(event.End, loc)
	if !ok {
		return nil
	}
	return &models.OccupancyRecord{
		ID:    event.ID,
		Start: start,
		End:   end,
		Class: c.Classify(event),
		Pax:   ParsePax(event),
	}
}

// NormalizeAll classifies a day's events, silently dropping the malformed.
func (c *Classifier) NormalizeAll(events []calendar.Event, loc *time.Location) []models.OccupancyRecord {
	records := make([]models.OccupancyRecord, 0, len(events))
	for i := range events {
		if rec := c.Normalize(&events[i], loc); rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

// resolveInstant converts a provider time value: a precise dateTime is
// shifted into the target location, an all-day date becomes local midnight.
func resolveInstant(et calendar.EventTime, loc *time.Location) (time.Time, bool) {
	if et.DateTime != "" {
		t, err := time.Parse(time.RFC3339, et.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t.In(loc), true
	}
	if et.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", et.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
