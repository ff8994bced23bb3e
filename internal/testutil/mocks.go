package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/omriShneor/calendrix/internal/gcal"
)

// MockCalendar simulates the calendar provider for testing
type MockCalendar struct {
	mu     sync.Mutex
	events []gcal.EventInput
	err    error
}

// NewMockCalendar creates a calendar that accepts every event
func NewMockCalendar() *MockCalendar {
	return &MockCalendar{}
}

func (m *MockCalendar) CreateEvent(_ context.Context, input gcal.EventInput) (*gcal.CreatedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	m.events = append(m.events, input)
	id := fmt.Sprintf("mock-event-%d", len(m.events))
	return &gcal.CreatedEvent{
		ID:       id,
		HTMLLink: "https://calendar.google.com/calendar/event?eid=" + id,
	}, nil
}

func (m *MockCalendar) Name() string {
	return "mock"
}

// SetError makes every following CreateEvent fail with err; nil restores success
func (m *MockCalendar) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Events returns the events created so far
func (m *MockCalendar) Events() []gcal.EventInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gcal.EventInput(nil), m.events...)
}
