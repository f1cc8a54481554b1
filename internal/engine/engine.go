package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"meetslot/internal/metrics"
)

// Calendar is the external calendar collaborator. ListBusyIntervals must
// return only events overlapping [dayStart, dayEnd); entries missing a
// boundary are passed through as-is and handled by the availability filter.
// InsertEvent offers no idempotency: a duplicate submission creates a
// duplicate event.
type Calendar interface {
	ListBusyIntervals(ctx context.Context, dayStart, dayEnd time.Time) ([]BusyInterval, error)
	InsertEvent(ctx context.Context, req *BookingRequest) (*InsertResult, error)
}

// InsertResult is the calendar's answer to an event insert.
type InsertResult struct {
	Success    bool
	StatusCode int
	EventID    string
	MeetLink   string
}

// FreeSlot is a candidate with no overlapping busy interval, re-expressed in
// the display zone for presentation.
type FreeSlot struct {
	Start string `json:"start"` // "HH:mm" in the display zone
	End   string `json:"end"`
}

// Options is the static configuration of one engine instance. Slots are
// authored in SourceZone; results are rendered in DisplayZone. In the common
// case the two are equal.
type Options struct {
	SourceZone   string
	DisplayZone  string
	SlotTemplate []string // ordered "HH:mm" entries, strictly increasing
	SlotDuration time.Duration
	Malformed    MalformedPolicy
	Booking      BookingPolicy
}

// Engine computes slot availability against a calendar and books meetings on
// it. It holds no state across calls; the calendar is the only shared
// resource, and two concurrent users may both see the same slot as free.
// Resolving that race is the calendar's concern, not the engine's.
type Engine struct {
	cal    Calendar
	opts   Options
	logger zerolog.Logger
}

// New builds an engine around the given calendar collaborator.
func New(cal Calendar, opts Options, logger zerolog.Logger) *Engine {
	if opts.DisplayZone == "" {
		opts.DisplayZone = opts.SourceZone
	}
	return &Engine{
		cal:    cal,
		opts:   opts,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// AvailableSlots returns the template slots on the given day that have no
// overlap with the calendar's busy intervals, projected into the display
// zone. Malformed busy intervals are logged, counted, and (under the default
// policy) block the whole day rather than over-report free time.
func (e *Engine) AvailableSlots(ctx context.Context, date CivilDate) ([]FreeSlot, error) {
	dayStart, dayEnd, err := e.dayBounds(date)
	if err != nil {
		return nil, err
	}

	candidates, err := GenerateCandidateSlots(date, e.opts.SourceZone, e.opts.SlotTemplate, e.opts.SlotDuration)
	if err != nil {
		return nil, err
	}

	busy, err := e.cal.ListBusyIntervals(ctx, dayStart, dayEnd)
	if err != nil {
		metrics.IncUpstreamError("list_busy_intervals")
		return nil, &UpstreamError{Op: "list_busy_intervals", Kind: "read", Err: err}
	}

	free, malformed := FilterFree(candidates, busy, e.opts.Malformed)
	if malformed > 0 {
		metrics.AddMalformedBusyIntervals(malformed)
		e.logger.Warn().
			Str("date", date.String()).
			Int("malformed", malformed).
			Msg("busy intervals with unparsable boundaries")
	}

	out := make([]FreeSlot, 0, len(free))
	for _, c := range free {
		start, err := ToLocalTime(c.Start, e.opts.DisplayZone)
		if err != nil {
			return nil, err
		}
		end, err := ToLocalTime(c.End, e.opts.DisplayZone)
		if err != nil {
			return nil, err
		}
		out = append(out, FreeSlot{Start: start, End: end})
	}

	e.logger.Debug().
		Str("date", date.String()).
		Int("candidates", len(candidates)).
		Int("busy", len(busy)).
		Int("free", len(out)).
		Msg("availability computed")

	return out, nil
}

// Book builds the event payload for the chosen slot and inserts it on the
// calendar. The slot must be one of the configured template entries.
func (e *Engine) Book(ctx context.Context, date CivilDate, localStart string, fields BookingFields) (*InsertResult, error) {
	if !e.isTemplateSlot(localStart) {
		return nil, &ValidationError{Field: "start", Reason: "not an offerable slot"}
	}

	req, err := BuildBookingRequest(date, localStart, e.opts.SlotDuration, e.opts.SourceZone, fields, e.opts.Booking)
	if err != nil {
		return nil, err
	}

	res, err := e.cal.InsertEvent(ctx, req)
	if err != nil {
		metrics.IncUpstreamError("insert_event")
		// The calendar may return a partial result (the upstream status
		// code) alongside the error; pass it through for journaling.
		return res, &UpstreamError{Op: "insert_event", Kind: "write", Err: err}
	}

	e.logger.Info().
		Str("date", date.String()).
		Str("start", localStart).
		Str("event_id", res.EventID).
		Bool("success", res.Success).
		Msg("booking inserted")

	return res, nil
}

// dayBounds returns the source-zone midnights of the day and of the next
// civil day. Computing the upper bound from the next day's midnight keeps
// 23- and 25-hour daylight-saving days correct.
func (e *Engine) dayBounds(date CivilDate) (time.Time, time.Time, error) {
	dayStart, err := ToInstant(date, "00:00", e.opts.SourceZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	dayEnd, err := ToInstant(date.AddDays(1), "00:00", e.opts.SourceZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return dayStart, dayEnd, nil
}

func (e *Engine) isTemplateSlot(localStart string) bool {
	for _, entry := range e.opts.SlotTemplate {
		if entry == localStart {
			return true
		}
	}
	return false
}
