package engine

import "fmt"

// InvalidTimeError reports a malformed "HH:mm" string or an unknown IANA
// zone identifier. It is a configuration or programming error, never
// something a visitor can correct.
type InvalidTimeError struct {
	Value  string
	Zone   string
	Reason string
}

func (e *InvalidTimeError) Error() string {
	if e.Zone != "" && e.Value == "" {
		return fmt.Sprintf("invalid time zone %q: %s", e.Zone, e.Reason)
	}
	return fmt.Sprintf("invalid time %q: %s", e.Value, e.Reason)
}

// ValidationError reports a missing or unusable booking field. The
// presentation layer surfaces it as a user-correctable message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking field %q: %s", e.Field, e.Reason)
}

// UpstreamError wraps a failed calendar read or write. The engine does not
// retry; the caller decides on retry/backoff policy.
type UpstreamError struct {
	Op   string // "list_busy_intervals" or "insert_event"
	Kind string // "read" or "write"
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("calendar %s (%s) failed: %v", e.Op, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
