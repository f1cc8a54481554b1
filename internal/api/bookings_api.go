package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"meetslot/internal/db"
	"meetslot/internal/engine"
	"meetslot/internal/metrics"
)

// CreateBookingRequest is the request body for POST /api/v1/bookings.
type CreateBookingRequest struct {
	Date  string `json:"date"`  // Format: YYYY-MM-DD
	Start string `json:"start"` // Format: HH:mm, one of the offered slots
	Email string `json:"email"`
	Topic string `json:"topic,omitempty"`
}

// CreateBookingResponse is the response for a booking submission.
type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"booking_id,omitempty"`
	EventID   string `json:"event_id,omitempty"`
	MeetLink  string `json:"meet_link,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BookingsResponse is the response for GET /api/v1/bookings.
type BookingsResponse struct {
	Date     string             `json:"date"`
	Bookings []db.BookingRecord `json:"bookings"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateBooking(w, r)
	case http.MethodGet:
		s.handleListBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateBooking books a slot on the calendar.
// POST /api/v1/bookings
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_booking")

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := engine.ParseCivilDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	if err := s.policy.Check(date); err != nil {
		metrics.IncBookingCreated("rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := engine.BookingFields{InviteeEmail: req.Email, Topic: req.Topic}
	res, err := s.booker.Book(r.Context(), date, req.Start, fields)
	if err != nil {
		var validation *engine.ValidationError
		if errors.As(err, &validation) {
			metrics.IncBookingCreated("invalid")
			writeError(w, http.StatusBadRequest, validation.Error())
			return
		}
		var upstream *engine.UpstreamError
		if errors.As(err, &upstream) {
			metrics.IncBookingCreated("upstream_error")
			s.logger.Error().Err(err).Str("date", date.String()).Msg("booking failed")
			s.journalAttempt(r, date.String(), &req, res)
			writeError(w, http.StatusBadGateway, "booking could not be created; try again")
			return
		}
		metrics.IncBookingCreated("error")
		s.logger.Error().Err(err).Str("date", date.String()).Msg("booking failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var bookingID int64
	if s.journal != nil {
		bookingID, err = s.journal.RecordBooking(r.Context(), &db.BookingRecord{
			Date:         date.String(),
			Start:        req.Start,
			InviteeEmail: req.Email,
			Topic:        req.Topic,
			EventID:      res.EventID,
			MeetLink:     res.MeetLink,
			Success:      res.Success,
			StatusCode:   res.StatusCode,
		})
		if err != nil {
			// The event is already on the calendar; a journal failure must
			// not turn the booking into an error.
			s.logger.Error().Err(err).Msg("journal write failed")
		}
	}

	metrics.IncBookingCreated("ok")
	s.dropCache(r.Context(), "slots:"+date.String())

	writeJSON(w, http.StatusCreated, CreateBookingResponse{
		Success:   res.Success,
		BookingID: bookingID,
		EventID:   res.EventID,
		MeetLink:  res.MeetLink,
	})
}

// journalAttempt records a failed submission when the calendar returned a
// partial result carrying the upstream status code.
func (s *HTTPServer) journalAttempt(r *http.Request, date string, req *CreateBookingRequest, res *engine.InsertResult) {
	if s.journal == nil || res == nil {
		return
	}
	_, err := s.journal.RecordBooking(r.Context(), &db.BookingRecord{
		Date:         date,
		Start:        req.Start,
		InviteeEmail: req.Email,
		Topic:        req.Topic,
		Success:      false,
		StatusCode:   res.StatusCode,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("journal write failed")
	}
}

// handleListBookings returns journaled booking attempts for a day.
// GET /api/v1/bookings?date=YYYY-MM-DD
func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_bookings")

	if s.journal == nil {
		writeError(w, http.StatusNotFound, "booking journal is disabled")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := engine.ParseCivilDate(dateStr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	records, err := s.journal.GetBookingsByDate(r.Context(), dateStr)
	if err != nil {
		s.logger.Error().Err(err).Str("date", dateStr).Msg("journal read failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if records == nil {
		records = []db.BookingRecord{}
	}
	writeJSON(w, http.StatusOK, BookingsResponse{Date: dateStr, Bookings: records})
}
