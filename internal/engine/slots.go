package engine

import "time"

// CandidateSlot is one offerable meeting slot on a concrete day, expressed
// as absolute instants. Label keeps the source-zone template entry the slot
// was generated from.
type CandidateSlot struct {
	Start time.Time
	End   time.Time
	Label string // "HH:mm" in the source zone
}

// GenerateCandidateSlots projects every template entry onto the given civil
// date in the source zone. Each entry is projected independently, so on a
// daylight-saving transition day every slot carries its own correct offset.
// The result has exactly len(template) slots, in template order.
func GenerateCandidateSlots(date CivilDate, sourceZone string, template []string, duration time.Duration) ([]CandidateSlot, error) {
	slots := make([]CandidateSlot, 0, len(template))
	for _, entry := range template {
		start, err := ToInstant(date, entry, sourceZone)
		if err != nil {
			return nil, err
		}
		slots = append(slots, CandidateSlot{
			Start: start,
			End:   start.Add(duration),
			Label: entry,
		})
	}
	return slots, nil
}
