package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omriShneor/calendrix/internal/booking"
)

// NewTestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateTestBooking appends a booking with the given title and returns it with its id set
func CreateTestBooking(t *testing.T, db *DB, title string) booking.Record {
	t.Helper()

	r := booking.Record{
		Name:            "Alex",
		Date:            "2026-10-19",
		StartTime:       "14:00",
		EndTime:         "15:30",
		Title:           title,
		CalendarEventID: "evt-" + title,
		EventLink:       "https://calendar.google.com/event?eid=" + title,
		ShareLink:       "https://calendar.google.com/calendar/render?action=TEMPLATE&text=" + title,
	}

	id, err := db.AppendBooking(r)
	require.NoError(t, err, "failed to create test booking")

	r.ID = id
	return r
}
