package db

import (
	"context"
	"fmt"
	"time"
)

// BookingRecord is one journaled booking attempt. The journal is service
// bookkeeping only; availability is always computed against the calendar,
// never against these rows.
type BookingRecord struct {
	ID           int64     `json:"id"`
	Date         string    `json:"date"`  // YYYY-MM-DD
	Start        string    `json:"start"` // "HH:mm" in the source zone
	InviteeEmail string    `json:"invitee_email"`
	Topic        string    `json:"topic,omitempty"`
	EventID      string    `json:"event_id,omitempty"`
	MeetLink     string    `json:"meet_link,omitempty"`
	Success      bool      `json:"success"`
	StatusCode   int       `json:"status_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordBooking journals one booking attempt and returns its id.
func (db *DB) RecordBooking(ctx context.Context, rec *BookingRecord) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO bookings (date, start, invitee_email, topic, event_id, meet_link, success, status_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date, rec.Start, rec.InviteeEmail, rec.Topic, rec.EventID, rec.MeetLink, rec.Success, rec.StatusCode,
	)
	if err != nil {
		return 0, fmt.Errorf("record booking: %w", err)
	}
	return res.LastInsertId()
}

// GetBookingsByDate returns journaled attempts for a YYYY-MM-DD date, newest
// first.
func (db *DB) GetBookingsByDate(ctx context.Context, date string) ([]BookingRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, date, start, invitee_email, topic, event_id, meet_link, success, status_code, created_at
		 FROM bookings WHERE date = ? ORDER BY created_at DESC`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}
	defer rows.Close()

	var records []BookingRecord
	for rows.Next() {
		var rec BookingRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Start, &rec.InviteeEmail, &rec.Topic,
			&rec.EventID, &rec.MeetLink, &rec.Success, &rec.StatusCode, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
