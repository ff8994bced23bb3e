package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/calendrix/internal/booking"
)

// MockBookingNotifier is a mock implementation of the booking notifier.
// Notified receives every record so tests can wait on the asynchronous call.
type MockBookingNotifier struct {
	mock.Mock
	Notified chan *booking.Record
}

func NewMockBookingNotifier() *MockBookingNotifier {
	return &MockBookingNotifier{Notified: make(chan *booking.Record, 8)}
}

func (m *MockBookingNotifier) NotifyBooking(ctx context.Context, record *booking.Record) {
	m.Called(ctx, record)
	m.Notified <- record
}
