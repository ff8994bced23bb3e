package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/omriShneor/calendrix/internal/booking"
)

// DefaultBookingsLimit is how many bookings a listing returns when no limit is given
const DefaultBookingsLimit = 20

// AppendBooking inserts a committed booking and returns its id.
// Bookings are never updated or deleted.
func (d *DB) AppendBooking(r booking.Record) (int64, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := d.Exec(`
		INSERT INTO bookings (name, date, start_time, end_time, title, event_id, event_link, share_link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Name, r.Date, r.StartTime, r.EndTime, r.Title, r.CalendarEventID, r.EventLink, r.ShareLink, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get booking id: %w", err)
	}
	return id, nil
}

// ListRecentBookings returns up to limit bookings, most recent first
func (d *DB) ListRecentBookings(limit int) ([]booking.Record, error) {
	if limit <= 0 {
		limit = DefaultBookingsLimit
	}

	rows, err := d.Query(`
		SELECT id, name, date, start_time, end_time, title, event_id, event_link, share_link, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	records := []booking.Record{}
	for rows.Next() {
		var r booking.Record
		if err := scanBooking(rows, &r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetBooking retrieves a booking by id, nil if it does not exist
func (d *DB) GetBooking(id int64) (*booking.Record, error) {
	row := d.QueryRow(`
		SELECT id, name, date, start_time, end_time, title, event_id, event_link, share_link, created_at
		FROM bookings WHERE id = ?
	`, id)

	var r booking.Record
	err := scanBooking(row, &r)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner, r *booking.Record) error {
	return s.Scan(
		&r.ID,
		&r.Name,
		&r.Date,
		&r.StartTime,
		&r.EndTime,
		&r.Title,
		&r.CalendarEventID,
		&r.EventLink,
		&r.ShareLink,
		&r.CreatedAt,
	)
}
