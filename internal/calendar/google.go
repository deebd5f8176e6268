package calendar

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"reservas/internal/metrics"
)

// maxDayResults assumes a single day never holds more events than one list
// page. 2500 is the provider's page ceiling.
const maxDayResults = 2500

// GoogleSource talks to Google Calendar v3. List calls go through a rate
// limiter so a multi-day lookahead scan cannot burst the provider.
type GoogleSource struct {
	svc     *gcal.Service
	limiter *rate.Limiter
}

var (
	sharedMu     sync.Mutex
	sharedSource *GoogleSource
)

// Shared returns the process-wide calendar source, creating it on first use.
// Initialization is guarded so concurrent first callers share one client.
func Shared(ctx context.Context) (*GoogleSource, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedSource != nil {
		return sharedSource, nil
	}
	src, err := NewGoogleSource(ctx)
	if err != nil {
		return nil, err
	}
	sharedSource = src
	return sharedSource, nil
}

// NewGoogleSource builds an authenticated client from service account
// credentials. GOOGLE_SERVICE_ACCOUNT_JSON may hold either the JSON itself
// or a path to it; GOOGLE_APPLICATION_CREDENTIALS is the fallback key file.
func NewGoogleSource(ctx context.Context, opts ...option.ClientOption) (*GoogleSource, error) {
	authOpt, err := credentialsOption(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gcal.NewService(ctx, append([]option.ClientOption{authOpt}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleSource{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}, nil
}

func credentialsOption(ctx context.Context) (option.ClientOption, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); raw != "" {
		if strings.HasPrefix(raw, "{") {
			creds, err := google.CredentialsFromJSON(ctx, []byte(raw), gcal.CalendarScope)
			if err != nil {
				return nil, fmt.Errorf("parse service account JSON: %w", err)
			}
			return option.WithCredentials(creds), nil
		}
		return option.WithCredentialsFile(raw), nil
	}
	if keyFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); keyFile != "" {
		return option.WithCredentialsFile(keyFile), nil
	}
	return nil, fmt.Errorf("missing Google service account credentials")
}

// ListDay fetches one day window of events ordered by start time. Recurring
// events are expanded and deleted events excluded, matching what the
// availability engine expects from the provider.
func (g *GoogleSource) ListDay(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	metrics.IncCalendarCall("list")
	resp, err := g.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false).
		MaxResults(maxDayResults).
		Context(ctx).Do()
	if err != nil {
		metrics.IncCalendarError("list")
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, fromGoogleEvent(item))
	}
	return events, nil
}

// Insert writes a new event and returns the provider-assigned id.
func (g *GoogleSource) Insert(ctx context.Context, calendarID string, event *Event) (string, error) {
	metrics.IncCalendarCall("insert")
	created, err := g.svc.Events.Insert(calendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		metrics.IncCalendarError("insert")
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

func fromGoogleEvent(item *gcal.Event) Event {
	e := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
	}
	if item.Start != nil {
		e.Start = EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date, TimeZone: item.Start.TimeZone}
	}
	if item.End != nil {
		e.End = EventTime{DateTime: item.End.DateTime, Date: item.End.Date, TimeZone: item.End.TimeZone}
	}
	return e
}

func toGoogleEvent(event *Event) *gcal.Event {
	return &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.DateTime,
			TimeZone: event.Start.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.DateTime,
			TimeZone: event.End.TimeZone,
		},
	}
}
