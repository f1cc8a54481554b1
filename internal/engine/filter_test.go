package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlots(t *testing.T, date CivilDate, zone string, template []string, duration time.Duration) []CandidateSlot {
	t.Helper()
	slots, err := GenerateCandidateSlots(date, zone, template, duration)
	require.NoError(t, err)
	return slots
}

func busyAt(t *testing.T, date CivilDate, startLocal, endLocal, zone string) BusyInterval {
	t.Helper()
	start, err := ToInstant(date, startLocal, zone)
	require.NoError(t, err)
	end, err := ToInstant(date, endLocal, zone)
	require.NoError(t, err)
	return BusyInterval{Start: start.Format(time.RFC3339), End: end.Format(time.RFC3339)}
}

func labels(slots []CandidateSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func TestFilterFreeNoBusy(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	candidates := mustSlots(t, date, "Europe/Paris", []string{"12:00", "12:30"}, 30*time.Minute)

	free, malformed := FilterFree(candidates, nil, TreatBusy)

	assert.Equal(t, []string{"12:00", "12:30"}, labels(free))
	assert.Zero(t, malformed)
}

func TestFilterFreePartialOverlap(t *testing.T) {
	// Busy 12:15-12:45 overlaps both slots: 12:15-12:30 of the first and
	// 12:30-12:45 of the second.
	date := CivilDate{2025, time.May, 12}
	candidates := mustSlots(t, date, "Europe/Paris", []string{"12:00", "12:30"}, 30*time.Minute)
	busy := []BusyInterval{busyAt(t, date, "12:15", "12:45", "Europe/Paris")}

	free, malformed := FilterFree(candidates, busy, TreatBusy)

	assert.Empty(t, labels(free))
	assert.Zero(t, malformed)
}

func TestFilterFreeBackToBack(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	candidates := mustSlots(t, date, "Europe/Paris", []string{"10:00"}, 30*time.Minute)

	tests := []struct {
		name string
		busy BusyInterval
		free bool
	}{
		{"busy ends at slot start", busyAt(t, date, "09:30", "10:00", "Europe/Paris"), true},
		{"busy starts at slot end", busyAt(t, date, "10:30", "11:00", "Europe/Paris"), true},
		{"identical interval", busyAt(t, date, "10:00", "10:30", "Europe/Paris"), false},
		{"busy contains slot", busyAt(t, date, "09:00", "11:00", "Europe/Paris"), false},
		{"slot contains busy", busyAt(t, date, "10:10", "10:20", "Europe/Paris"), false},
		{"overlaps slot start", busyAt(t, date, "09:45", "10:15", "Europe/Paris"), false},
		{"overlaps slot end", busyAt(t, date, "10:15", "10:45", "Europe/Paris"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, _ := FilterFree(candidates, []BusyInterval{tt.busy}, TreatBusy)
			if tt.free {
				assert.Len(t, free, 1)
			} else {
				assert.Empty(t, free)
			}
		})
	}
}

func TestFilterFreeKeepsOrder(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	template := []string{"08:00", "08:20", "08:40", "09:00", "09:20", "09:40"}
	candidates := mustSlots(t, date, "Europe/Paris", template, 20*time.Minute)
	busy := []BusyInterval{
		busyAt(t, date, "08:20", "08:40", "Europe/Paris"),
		busyAt(t, date, "09:00", "09:30", "Europe/Paris"),
	}

	free, malformed := FilterFree(candidates, busy, TreatBusy)

	// 09:20 overlaps the 09:00-09:30 event; 09:40 does not.
	assert.Equal(t, []string{"08:00", "08:40", "09:40"}, labels(free))
	assert.Zero(t, malformed)
}

func TestFilterFreeMalformed(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	candidates := mustSlots(t, date, "Europe/Paris", []string{"12:00", "12:30"}, 30*time.Minute)
	wellFormed := busyAt(t, date, "18:00", "19:00", "Europe/Paris")

	t.Run("missing end blocks the day", func(t *testing.T) {
		// The parseable 18:00 start is after both candidates; the missing
		// end must not shrink the blocked range to "after 18:00".
		busy := []BusyInterval{{Start: wellFormed.Start, End: ""}}
		free, malformed := FilterFree(candidates, busy, TreatBusy)
		assert.Empty(t, free)
		assert.Equal(t, 1, malformed)
	})

	t.Run("missing start blocks the day", func(t *testing.T) {
		busy := []BusyInterval{{Start: "", End: wellFormed.End}}
		free, malformed := FilterFree(candidates, busy, TreatBusy)
		assert.Empty(t, free)
		assert.Equal(t, 1, malformed)
	})

	t.Run("parseable end before all candidates still blocks the day", func(t *testing.T) {
		early := busyAt(t, date, "07:00", "07:30", "Europe/Paris")
		busy := []BusyInterval{{Start: "", End: early.End}}
		free, malformed := FilterFree(candidates, busy, TreatBusy)
		assert.Empty(t, free)
		assert.Equal(t, 1, malformed)
	})

	t.Run("unparsable boundary blocks the day", func(t *testing.T) {
		busy := []BusyInterval{{Start: "not-a-timestamp", End: wellFormed.End}}
		free, malformed := FilterFree(candidates, busy, TreatBusy)
		assert.Empty(t, free)
		assert.Equal(t, 1, malformed)
	})

	t.Run("ignore policy skips malformed", func(t *testing.T) {
		busy := []BusyInterval{{Start: wellFormed.Start, End: ""}}
		free, malformed := FilterFree(candidates, busy, IgnoreMalformed)
		assert.Len(t, free, 2)
		assert.Equal(t, 1, malformed)
	})

	t.Run("well-formed intervals still apply", func(t *testing.T) {
		busy := []BusyInterval{
			{Start: wellFormed.Start, End: ""},
			busyAt(t, date, "12:00", "12:30", "Europe/Paris"),
		}
		free, malformed := FilterFree(candidates, busy, IgnoreMalformed)
		assert.Equal(t, []string{"12:30"}, labels(free))
		assert.Equal(t, 1, malformed)
	})
}

func TestFilterFreeSoundness(t *testing.T) {
	// Every kept candidate must be conflict-free; every dropped one must
	// conflict with at least one interval.
	date := CivilDate{2025, time.May, 12}
	template := []string{"08:00", "08:20", "08:40", "09:00", "09:20", "09:40"}
	candidates := mustSlots(t, date, "Europe/Paris", template, 20*time.Minute)
	busy := []BusyInterval{
		busyAt(t, date, "08:10", "08:30", "Europe/Paris"),
		busyAt(t, date, "09:40", "10:00", "Europe/Paris"),
	}

	free, _ := FilterFree(candidates, busy, TreatBusy)

	kept := make(map[string]bool)
	for _, f := range free {
		kept[f.Label] = true
	}

	for _, c := range candidates {
		conflicts := false
		for _, b := range busy {
			bStart, err := time.Parse(time.RFC3339, b.Start)
			require.NoError(t, err)
			bEnd, err := time.Parse(time.RFC3339, b.End)
			require.NoError(t, err)
			if c.Start.Before(bEnd) && c.End.After(bStart) {
				conflicts = true
			}
		}
		assert.Equal(t, !conflicts, kept[c.Label], "slot %s", c.Label)
	}
}
