package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"meetslot/internal/db"
	"meetslot/internal/engine"
)

// Availability computes free slots for a day.
type Availability interface {
	AvailableSlots(ctx context.Context, date engine.CivilDate) ([]engine.FreeSlot, error)
}

// Booker books one chosen slot on the calendar.
type Booker interface {
	Book(ctx context.Context, date engine.CivilDate, localStart string, fields engine.BookingFields) (*engine.InsertResult, error)
}

// Journal records booking attempts and serves them back.
type Journal interface {
	RecordBooking(ctx context.Context, rec *db.BookingRecord) (int64, error)
	GetBookingsByDate(ctx context.Context, date string) ([]db.BookingRecord, error)
}

// HTTPServer exposes the engine over HTTP.
type HTTPServer struct {
	engine  Availability
	booker  Booker
	journal Journal
	policy  engine.DatePolicy
	logger  zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewHTTPServer wires handlers around the engine. journal may be nil.
func NewHTTPServer(availability Availability, booker Booker, journal Journal, policy engine.DatePolicy, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		engine:  availability,
		booker:  booker,
		journal: journal,
		policy:  policy,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// UseRedisCache enables read-through caching of slot responses.
func (s *HTTPServer) UseRedisCache(client *redis.Client, ttl time.Duration) {
	s.redis = client
	s.cacheTTL = ttl
}

// Handler returns the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/slots", s.handleSlots)
	mux.HandleFunc("/api/v1/bookings", s.handleBookings)
	return mux
}

// Start serves until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("api server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *HTTPServer) readCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (s *HTTPServer) writeCache(ctx context.Context, key string, val any) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, data, s.cacheTTL).Err()
}

func (s *HTTPServer) dropCache(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, key).Err()
}
