// Package service orchestrates the availability engine: one day-window
// fetch from the calendar, classification, slot generation and evaluation
// across every turno, plus the bounded forward search and the booking gate.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"reservas/internal/calendar"
	"reservas/internal/classify"
	"reservas/internal/localtime"
	"reservas/internal/metrics"
	"reservas/internal/models"
	"reservas/internal/slots"
)

// Service answers availability queries and commits reservations against the
// external calendar. It holds no reservation state of its own; concurrent
// requests share nothing but the provider client.
type Service struct {
	source     calendar.EventSource
	classifier *classify.Classifier
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration

	audit    AuditRecorder
	notifier Notifier
}

// New constructs the availability service.
func New(source calendar.EventSource, classifier *classify.Classifier, logger *zerolog.Logger) *Service {
	return &Service{
		source:     source,
		classifier: classifier,
		logger:     logger,
	}
}

// UseRedisCache enables optional response caching for full-day availability.
// Cached grids trade staleness for provider load; booking always re-reads.
func (s *Service) UseRedisCache(client *redis.Client, ttl time.Duration) {
	s.redis = client
	s.cacheTTL = ttl
}

// fetchDayRecords performs the single day-window fetch and classification
// that every turno and slot evaluation for the date shares.
func (s *Service) fetchDayRecords(ctx context.Context, r *models.Restaurant, date string, loc *time.Location) ([]models.OccupancyRecord, error) {
	from, to, err := localtime.DayBounds(date, loc)
	if err != nil {
		return nil, err
	}
	events, err := s.source.ListDay(ctx, r.CalendarID, from, to)
	if err != nil {
		return nil, err
	}
	return s.classifier.NormalizeAll(events, loc), nil
}

// ComputeAvailability returns the per-turno grid of slots for one date plus
// the count of available slots across the day. Results may be served from
// the optional cache.
func (s *Service) ComputeAvailability(ctx context.Context, r *models.Restaurant, date string, party int) (*models.DayAvailability, error) {
	cacheKey := fmt.Sprintf("availability:%s:%s:%d", r.Slug, date, party)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		metrics.IncAvailabilityCacheHit()
		return cached, nil
	}

	day, err := s.computeAvailability(ctx, r, date, party)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKey, day)
	return day, nil
}

func (s *Service) computeAvailability(ctx context.Context, r *models.Restaurant, date string, party int) (*models.DayAvailability, error) {
	loc, err := r.Location()
	if err != nil {
		return nil, err
	}
	dayStart, err := localtime.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchDayRecords(ctx, r, date, loc)
	if err != nil {
		return nil, err
	}

	day := &models.DayAvailability{
		Date:   date,
		Turnos: make([]models.TurnoSlots, 0, len(r.Turnos)),
	}

	for i := range r.Turnos {
		turno := &r.Turnos[i]
		starts, err := slots.Generate(turno, dayStart, r.ReservationDuration(), r.SlotInterval())
		if err != nil {
			return nil, err
		}

		ts := models.TurnoSlots{Turno: turno.Name, Slots: make([]models.Slot, 0, len(starts))}
		capacity := r.EffectiveCapacity(turno)
		for _, start := range starts {
			eval := slots.Evaluate(start, r.ReservationDuration(), party, capacity, records)
			if eval.Available {
				day.AvailableSlots++
			}
			ts.Slots = append(ts.Slots, models.Slot{
				Start:     start,
				Time:      localtime.Clock(start),
				Available: eval.Available,
			})
		}
		day.Turnos = append(day.Turnos, ts)
	}

	metrics.IncAvailabilityComputed()
	s.logger.Debug().
		Str("restaurant", r.Slug).
		Str("date", date).
		Int("party", party).
		Int("available", day.AvailableSlots).
		Msg("availability computed")

	return day, nil
}

// FindNextAvailable scans dates strictly after the starting date, in order,
// until a turno with an available slot is found or the horizon is exhausted.
// A horizon of 0 skips the search without touching the provider. Dates are
// checked sequentially to bound provider load; the earliest date wins.
func (s *Service) FindNextAvailable(ctx context.Context, r *models.Restaurant, date string, party, horizonDays int) (*models.NextSlot, error) {
	if horizonDays <= 0 {
		return nil, nil
	}
	loc, err := r.Location()
	if err != nil {
		return nil, err
	}
	start, err := localtime.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}

	for offset := 1; offset <= horizonDays; offset++ {
		candidate := start.AddDate(0, 0, offset).Format(localtime.DateLayout)
		day, err := s.computeAvailability(ctx, r, candidate, party)
		if err != nil {
			return nil, err
		}
		for _, turno := range day.Turnos {
			for _, slot := range turno.Slots {
				if slot.Available {
					return &models.NextSlot{Date: candidate, Turno: turno.Turno, Time: slot.Time}, nil
				}
			}
		}
	}
	return nil, nil
}

// CheckSlot re-evaluates a single slot against a fresh day fetch. The turno
// must fully contain [start, start+duration]; no containing turno is a
// normal "unavailable" result, not an error.
func (s *Service) CheckSlot(ctx context.Context, r *models.Restaurant, date, clock string, party int) (*models.SlotCheck, error) {
	loc, err := r.Location()
	if err != nil {
		return nil, err
	}
	dayStart, err := localtime.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	slotStart, err := localtime.OnDate(dayStart, clock)
	if err != nil {
		return nil, err
	}
	slotEnd := slotStart.Add(r.ReservationDuration())

	turno, err := s.containingTurno(r, dayStart, slotStart, slotEnd)
	if err != nil {
		return nil, err
	}
	capacity := r.EffectiveCapacity(turno)
	if turno == nil {
		return &models.SlotCheck{Available: false, TotalPax: 0, CapacityMax: capacity}, nil
	}

	records, err := s.fetchDayRecords(ctx, r, date, loc)
	if err != nil {
		return nil, err
	}

	eval := slots.Evaluate(slotStart, r.ReservationDuration(), party, capacity, records)
	return &models.SlotCheck{
		Available:   eval.Available,
		TotalPax:    eval.TotalPax,
		CapacityMax: capacity,
	}, nil
}

func (s *Service) containingTurno(r *models.Restaurant, dayStart, slotStart, slotEnd time.Time) (*models.Turno, error) {
	for i := range r.Turnos {
		turno := &r.Turnos[i]
		turnoStart, err := localtime.OnDate(dayStart, turno.Start)
		if err != nil {
			return nil, err
		}
		turnoEnd, err := localtime.OnDate(dayStart, turno.End)
		if err != nil {
			return nil, err
		}
		if !slotStart.Before(turnoStart) && !slotEnd.After(turnoEnd) {
			return turno, nil
		}
	}
	return nil, nil
}

func (s *Service) readCache(ctx context.Context, key string) *models.DayAvailability {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var day models.DayAvailability
	if err := json.Unmarshal([]byte(val), &day); err != nil {
		return nil
	}
	return &day
}

func (s *Service) writeCache(ctx context.Context, key string, day *models.DayAvailability) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(day)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, data, s.cacheTTL).Err()
}
