package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"reservas/internal/localtime"
	"reservas/internal/metrics"
	"reservas/internal/models"
)

var (
	dateFormat  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockFormat = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// AvailabilityResponse is the response for GET /api/availability.
type AvailabilityResponse struct {
	OK            bool                `json:"ok"`
	Date          string              `json:"date"`
	Party         int                 `json:"party"`
	Timezone      string              `json:"timezone"`
	Turnos        []models.TurnoSlots `json:"turnos"`
	NextAvailable *models.NextSlot    `json:"next_available,omitempty"`
}

// handleAvailability returns the slot grid for a date.
// GET /api/availability?date=YYYY-MM-DD&party=N[&restaurant=slug]
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := validDate(r.URL.Query().Get("date"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	party, ok := validParty(r.URL.Query().Get("party"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid party size")
		return
	}

	restaurant, err := s.cfg.Restaurant(resolveSlug(r))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	day, err := s.svc.ComputeAvailability(r.Context(), restaurant, date, party)
	if err != nil {
		s.providerError(w, err, "availability computation failed")
		return
	}

	response := AvailabilityResponse{
		OK:       true,
		Date:     date,
		Party:    party,
		Timezone: restaurant.Timezone,
		Turnos:   day.Turnos,
	}

	// When the whole day is full, offer the earliest later slot.
	if day.AvailableSlots == 0 && s.cfg.Booking.LookaheadDays > 0 {
		next, err := s.svc.FindNextAvailable(r.Context(), restaurant, date, party, s.cfg.Booking.LookaheadDays)
		if err != nil {
			s.providerError(w, err, "forward search failed")
			return
		}
		response.NextAvailable = next
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) providerError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error().Err(err).Msg(msg)
	writeError(w, http.StatusBadGateway, "calendar provider error")
}

func resolveSlug(r *http.Request) string {
	if slug := r.URL.Query().Get("restaurant"); slug != "" {
		return slug
	}
	if slug := r.URL.Query().Get("slug"); slug != "" {
		return slug
	}
	return r.Header.Get("X-Restaurant-Slug")
}

func validDate(value string) (string, bool) {
	if !dateFormat.MatchString(value) {
		return "", false
	}
	if _, err := time.Parse(localtime.DateLayout, value); err != nil {
		return "", false
	}
	return value, true
}

func validClock(value string) (string, bool) {
	if !clockFormat.MatchString(value) {
		return "", false
	}
	if _, _, err := localtime.ParseClock(value); err != nil {
		return "", false
	}
	return value, true
}

func validParty(value string) (int, bool) {
	party, err := strconv.Atoi(value)
	if err != nil || party <= 0 {
		return 0, false
	}
	return party, true
}
