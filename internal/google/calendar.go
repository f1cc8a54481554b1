package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	goauth "golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"meetslot/internal/engine"
)

// CalendarService talks to one Google calendar. It implements
// engine.Calendar: one read (events on a day) and one append (event insert).
// It never updates or deletes existing events.
type CalendarService struct {
	svc        *calendar.Service
	calendarID string
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Config holds calendar client settings.
type Config struct {
	CredentialsFile   string
	CalendarID        string
	RequestsPerSecond float64
	Burst             int
}

// NewCalendarService authenticates with a service-account credentials file
// and returns a client bound to the configured calendar.
func NewCalendarService(ctx context.Context, cfg Config, logger zerolog.Logger) (*CalendarService, error) {
	if cfg.CalendarID == "" {
		return nil, errors.New("calendar id is required")
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := goauth.CredentialsFromJSON(ctx, data, calendar.CalendarScope, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	return &CalendarService{
		svc:        svc,
		calendarID: cfg.CalendarID,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logger.With().Str("component", "google_calendar").Logger(),
	}, nil
}

// ListBusyIntervals returns the calendar's events overlapping
// [dayStart, dayEnd) as raw boundary strings. All-day events carry no
// DateTime and come back with empty boundaries; the engine's filter decides
// how to treat them.
func (s *CalendarService) ListBusyIntervals(ctx context.Context, dayStart, dayEnd time.Time) ([]engine.BusyInterval, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.svc.Events.List(s.calendarID).
		EventTypes("default").
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	busy := make([]engine.BusyInterval, 0, len(resp.Items))
	for _, item := range resp.Items {
		var b engine.BusyInterval
		if item.Start != nil {
			b.Start = item.Start.DateTime
		}
		if item.End != nil {
			b.End = item.End.DateTime
		}
		busy = append(busy, b)
	}

	s.logger.Debug().
		Time("day_start", dayStart).
		Int("events", len(busy)).
		Msg("listed busy intervals")

	return busy, nil
}

// InsertEvent appends the booking to the calendar with a conference link and
// the configured reminder override.
func (s *CalendarService) InsertEvent(ctx context.Context, req *engine.BookingRequest) (*engine.InsertResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	event := buildEvent(req)

	inserted, err := s.svc.Events.Insert(s.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return &engine.InsertResult{Success: false, StatusCode: apiErr.Code}, fmt.Errorf("insert event: %w", err)
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.logger.Info().
		Str("event_id", inserted.Id).
		Str("summary", req.Summary).
		Msg("event inserted")

	return &engine.InsertResult{
		Success:    true,
		StatusCode: inserted.HTTPStatusCode,
		EventID:    inserted.Id,
		MeetLink:   inserted.HangoutLink,
	}, nil
}

// buildEvent maps a booking request onto the calendar event schema.
func buildEvent(req *engine.BookingRequest) *calendar.Event {
	return &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: req.Zone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: req.Zone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: req.Conference.ConferenceKey,
				},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{
					Method:  req.Conference.ReminderMethod,
					Minutes: req.Conference.ReminderMinutes,
				},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
