package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reservas/internal/calendar"
	"reservas/internal/localtime"
	"reservas/internal/metrics"
	"reservas/internal/models"
)

// ErrNoAvailability is returned when the booking gate rejects the slot.
var ErrNoAvailability = errors.New("no availability for requested slot")

// BookingRequest carries a validated reservation submission. Date and Time
// are already well-formed when they reach the service.
type BookingRequest struct {
	Date  string
	Time  string
	Party int
	Name  string
	Phone string
	Email string
	Notes string
}

// AuditRecorder records booking attempts for operational visibility. It is
// not a reservation store; the calendar stays the sole occupancy ledger.
type AuditRecorder interface {
	RecordBooking(ctx context.Context, restaurant, date, clock string, party int, outcome, eventID string) error
}

// Notifier announces confirmed reservations to operators.
type Notifier interface {
	BookingConfirmed(ctx context.Context, restaurant *models.Restaurant, req *BookingRequest, eventID string)
}

// UseAudit enables optional booking-attempt auditing.
func (s *Service) UseAudit(recorder AuditRecorder) {
	s.audit = recorder
}

// UseNotifier enables optional operator notifications on confirmed bookings.
func (s *Service) UseNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Book re-validates the slot immediately before inserting the reservation
// event, closing the window between the client's last availability check
// and submission.
//
// Two near-simultaneous bookings can still both pass this gate before
// either insert lands: the calendar offers no compare-and-set, and other
// processes may write to it too, so an in-process lock would not help.
// That consistency gap is accepted.
func (s *Service) Book(ctx context.Context, r *models.Restaurant, req *BookingRequest) (string, error) {
	check, err := s.CheckSlot(ctx, r, req.Date, req.Time, req.Party)
	if err != nil {
		metrics.IncBooking("error")
		return "", err
	}
	if !check.Available {
		metrics.IncBooking("rejected")
		s.recordAudit(ctx, r, req, "rejected", "")
		return "", ErrNoAvailability
	}

	eventID, err := s.insertReservation(ctx, r, req)
	if err != nil {
		metrics.IncBooking("error")
		s.recordAudit(ctx, r, req, "error", "")
		return "", err
	}

	metrics.IncBooking("confirmed")
	s.recordAudit(ctx, r, req, "confirmed", eventID)
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, r, req, eventID)
	}

	s.logger.Info().
		Str("restaurant", r.Slug).
		Str("date", req.Date).
		Str("time", req.Time).
		Int("party", req.Party).
		Str("event_id", eventID).
		Msg("reservation created")

	return eventID, nil
}

// insertReservation writes the reservation event. The summary carries the
// keyword and PAX token future classifier passes rely on.
func (s *Service) insertReservation(ctx context.Context, r *models.Restaurant, req *BookingRequest) (string, error) {
	loc, err := r.Location()
	if err != nil {
		return "", err
	}
	dayStart, err := localtime.ParseDate(req.Date, loc)
	if err != nil {
		return "", err
	}
	start, err := localtime.OnDate(dayStart, req.Time)
	if err != nil {
		return "", err
	}
	end := start.Add(r.ReservationDuration())

	var descriptionParts []string
	if req.Phone != "" {
		descriptionParts = append(descriptionParts, "Tel: "+req.Phone)
	}
	if req.Email != "" {
		descriptionParts = append(descriptionParts, "Email: "+req.Email)
	}
	if req.Notes != "" {
		descriptionParts = append(descriptionParts, "Notas: "+req.Notes)
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Reserva - %s - PAX=%d", req.Name, req.Party),
		Description: strings.Join(descriptionParts, "\n"),
		Start:       calendar.EventTime{DateTime: start.Format(time.RFC3339), TimeZone: r.Timezone},
		End:         calendar.EventTime{DateTime: end.Format(time.RFC3339), TimeZone: r.Timezone},
	}

	return s.source.Insert(ctx, r.CalendarID, event)
}

func (s *Service) recordAudit(ctx context.Context, r *models.Restaurant, req *BookingRequest, outcome, eventID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordBooking(ctx, r.Slug, req.Date, req.Time, req.Party, outcome, eventID); err != nil {
		s.logger.Error().Err(err).Msg("audit record failed")
	}
}
