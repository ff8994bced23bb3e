package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/calendrix/internal/gcal"
)

// MockEventService is a mock implementation of gcal.EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input gcal.EventInput) (*gcal.CreatedEvent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gcal.CreatedEvent), args.Error(1)
}

func (m *MockEventService) Name() string {
	args := m.Called()
	return args.String(0)
}
