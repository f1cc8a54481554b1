package api

import (
	"errors"
	"net/http"

	"meetslot/internal/engine"
	"meetslot/internal/metrics"
)

// SlotsResponse is the response for GET /api/v1/slots.
type SlotsResponse struct {
	Date  string            `json:"date"`
	Slots []engine.FreeSlot `json:"slots"`
}

// handleSlots returns the free slots for a day.
// GET /api/v1/slots?date=YYYY-MM-DD
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	date, err := engine.ParseCivilDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	if err := s.policy.Check(date); err != nil {
		metrics.IncAvailabilityQuery("rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := "slots:" + date.String()
	var resp SlotsResponse
	if s.readCache(r.Context(), cacheKey, &resp) {
		metrics.IncAvailabilityQuery("cache_hit")
		writeJSON(w, http.StatusOK, resp)
		return
	}

	slots, err := s.engine.AvailableSlots(r.Context(), date)
	if err != nil {
		var upstream *engine.UpstreamError
		if errors.As(err, &upstream) {
			metrics.IncAvailabilityQuery("upstream_error")
			s.logger.Error().Err(err).Str("date", date.String()).Msg("availability query failed")
			// A failed read must not look like an empty-but-final answer.
			writeError(w, http.StatusBadGateway, "free slots could not be loaded; try again")
			return
		}
		metrics.IncAvailabilityQuery("error")
		s.logger.Error().Err(err).Str("date", date.String()).Msg("availability query failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncAvailabilityQuery("ok")
	resp = SlotsResponse{Date: date.String(), Slots: slots}
	s.writeCache(r.Context(), cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}
