package engine

import "time"

// BusyInterval is an occupied range on the external calendar, carried as the
// raw RFC3339 boundary strings the calendar returned. Either boundary may be
// empty or unparsable; the filter decides what to do with such intervals.
type BusyInterval struct {
	Start string
	End   string
}

// MalformedPolicy selects how FilterFree treats a busy interval with an
// unparsable boundary.
type MalformedPolicy int

const (
	// TreatBusy treats an unparsable boundary as unbounded on that side, so
	// the interval conflicts with every candidate. Availability then never
	// over-reports free time because of bad upstream data.
	TreatBusy MalformedPolicy = iota

	// IgnoreMalformed skips intervals with an unparsable boundary. Callers
	// choosing this accept the risk of offering a slot the calendar in fact
	// holds.
	IgnoreMalformed
)

// FilterFree returns the subsequence of candidates that conflict with no
// busy interval, plus the number of malformed intervals encountered.
//
// Overlap uses half-open semantics: [cStart, cEnd) conflicts with
// [bStart, bEnd) iff cStart < bEnd && cEnd > bStart. A candidate that starts
// exactly when a busy interval ends, or ends exactly when one begins, does
// not conflict; back-to-back scheduling is allowed.
func FilterFree(candidates []CandidateSlot, busy []BusyInterval, policy MalformedPolicy) (free []CandidateSlot, malformed int) {
	type bounds struct {
		start, end time.Time
		openStart  bool
		openEnd    bool
	}

	parsed := make([]bounds, 0, len(busy))
	for _, b := range busy {
		var p bounds
		var bad bool

		if t, err := time.Parse(time.RFC3339, b.Start); err != nil {
			bad = true
			p.openStart = true
		} else {
			p.start = t
		}
		if t, err := time.Parse(time.RFC3339, b.End); err != nil {
			bad = true
			p.openEnd = true
		} else {
			p.end = t
		}

		if bad {
			malformed++
			if policy == IgnoreMalformed {
				continue
			}
			// A partially parseable interval is still untrustworthy as a
			// whole: open both sides so it conflicts with every candidate.
			p.openStart, p.openEnd = true, true
		}
		parsed = append(parsed, p)
	}

	free = make([]CandidateSlot, 0, len(candidates))
	for _, c := range candidates {
		conflict := false
		for _, b := range parsed {
			// An open boundary always satisfies its half of the predicate.
			if (b.openEnd || c.Start.Before(b.end)) && (b.openStart || c.End.After(b.start)) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, c)
		}
	}
	return free, malformed
}
