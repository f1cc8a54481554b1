package engine

import "time"

// BookingFields are the visitor-supplied parts of a booking.
type BookingFields struct {
	InviteeEmail string
	Topic        string
}

// BookingPolicy is the static, non-user-configurable part of every booking.
type BookingPolicy struct {
	ConferenceKey   string // calendar conferencing provider key
	ReminderMethod  string
	ReminderMinutes int64
}

// BookingRequest is the event payload handed to the calendar collaborator.
// Start and End are absolute instants; Zone is the zone the event should be
// rendered in on the calendar.
type BookingRequest struct {
	Start        time.Time
	End          time.Time
	Zone         string
	Summary      string
	Description  string
	InviteeEmail string

	Conference BookingPolicy
}

// BuildBookingRequest assembles the payload for one chosen slot. The end
// instant is computed by projecting the start and adding the duration, so
// wall-clock arithmetic rolls over hour and day boundaries correctly.
//
// Missing date, start time, or invitee email is a ValidationError: the
// presentation layer should have caught those already, but the builder
// refuses to construct a partial request.
func BuildBookingRequest(date CivilDate, localStart string, duration time.Duration, zone string, fields BookingFields, policy BookingPolicy) (*BookingRequest, error) {
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "required"}
	}
	if localStart == "" {
		return nil, &ValidationError{Field: "start", Reason: "required"}
	}
	if fields.InviteeEmail == "" {
		return nil, &ValidationError{Field: "email", Reason: "required"}
	}

	start, err := ToInstant(date, localStart, zone)
	if err != nil {
		return nil, err
	}

	return &BookingRequest{
		Start:        start,
		End:          start.Add(duration),
		Zone:         zone,
		Summary:      summaryFor(fields.InviteeEmail),
		Description:  fields.Topic,
		InviteeEmail: fields.InviteeEmail,
		Conference:   policy,
	}, nil
}

// summaryFor derives the event title. An empty invitee still yields a usable
// title rather than failing the request.
func summaryFor(invitee string) string {
	if invitee == "" {
		return "Call"
	}
	return "Call with " + invitee
}
