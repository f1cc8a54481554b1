package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = BookingPolicy{
	ConferenceKey:   "hangoutsMeet",
	ReminderMethod:  "email",
	ReminderMinutes: 30,
}

func TestBuildBookingRequest(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	fields := BookingFields{InviteeEmail: "visitor@example.com", Topic: "intro call"}

	req, err := BuildBookingRequest(date, "12:30", 30*time.Minute, "Europe/Paris", fields, testPolicy)
	require.NoError(t, err)

	startLocal, err := ToLocalTime(req.Start, "Europe/Paris")
	require.NoError(t, err)
	endLocal, err := ToLocalTime(req.End, "Europe/Paris")
	require.NoError(t, err)

	assert.Equal(t, "12:30", startLocal)
	assert.Equal(t, "13:00", endLocal)
	assert.Equal(t, "Call with visitor@example.com", req.Summary)
	assert.Equal(t, "intro call", req.Description)
	assert.Equal(t, "Europe/Paris", req.Zone)
	assert.Equal(t, testPolicy, req.Conference)
}

func TestBuildBookingRequestMidnightRollover(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	fields := BookingFields{InviteeEmail: "visitor@example.com"}

	req, err := BuildBookingRequest(date, "23:50", 20*time.Minute, "Europe/Paris", fields, testPolicy)
	require.NoError(t, err)

	endLocal, err := ToLocalTime(req.End, "Europe/Paris")
	require.NoError(t, err)
	assert.Equal(t, "00:10", endLocal)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	assert.Equal(t, 13, req.End.In(loc).Day(), "end must roll over to the next civil day")
}

func TestBuildBookingRequestValidation(t *testing.T) {
	date := CivilDate{2025, time.May, 12}
	fields := BookingFields{InviteeEmail: "visitor@example.com"}

	tests := []struct {
		name  string
		build func() (*BookingRequest, error)
		field string
	}{
		{
			name: "missing date",
			build: func() (*BookingRequest, error) {
				return BuildBookingRequest(CivilDate{}, "12:30", 30*time.Minute, "Europe/Paris", fields, testPolicy)
			},
			field: "date",
		},
		{
			name: "missing start",
			build: func() (*BookingRequest, error) {
				return BuildBookingRequest(date, "", 30*time.Minute, "Europe/Paris", fields, testPolicy)
			},
			field: "start",
		},
		{
			name: "missing email",
			build: func() (*BookingRequest, error) {
				return BuildBookingRequest(date, "12:30", 30*time.Minute, "Europe/Paris", BookingFields{}, testPolicy)
			},
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.Error(t, err)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestSummaryFor(t *testing.T) {
	assert.Equal(t, "Call with a@b.example", summaryFor("a@b.example"))
	assert.Equal(t, "Call", summaryFor(""))
}
