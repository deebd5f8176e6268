package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"reservas/internal/metrics"
	"reservas/internal/service"
)

// BookRequest is the request body for POST /api/book.
type BookRequest struct {
	Date       string `json:"date"` // Format: YYYY-MM-DD
	Time       string `json:"time"` // Format: HH:mm
	Party      int    `json:"party"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Restaurant string `json:"restaurant,omitempty"`
}

// BookResponse is the response for POST /api/book.
type BookResponse struct {
	OK      bool   `json:"ok"`
	EventID string `json:"event_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// handleBook validates a reservation submission, runs the booking gate and
// creates the calendar event.
// POST /api/book
func (s *HTTPServer) handleBook(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("book")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req BookRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, dateOK := validDate(req.Date)
	clock, clockOK := validClock(req.Time)
	if !dateOK || !clockOK || req.Party <= 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid reservation fields")
		return
	}
	if req.Phone == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "provide at least phone or email")
		return
	}

	restaurant, err := s.cfg.Restaurant(req.Restaurant)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	eventID, err := s.svc.Book(r.Context(), restaurant, &service.BookingRequest{
		Date:  date,
		Time:  clock,
		Party: req.Party,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if errors.Is(err, service.ErrNoAvailability) {
		writeJSON(w, http.StatusConflict, BookResponse{OK: false, Reason: "NO_AVAILABILITY"})
		return
	}
	if err != nil {
		s.providerError(w, err, "booking failed")
		return
	}

	writeJSON(w, http.StatusOK, BookResponse{OK: true, EventID: eventID})
}
