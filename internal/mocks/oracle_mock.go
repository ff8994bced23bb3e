package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/calendrix/internal/booking"
)

// MockOracle is a mock implementation of agent.Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Respond(ctx context.Context, transcript []booking.Turn, utterance string) (string, error) {
	args := m.Called(ctx, transcript, utterance)
	return args.String(0), args.Error(1)
}

func (m *MockOracle) Name() string {
	args := m.Called()
	return args.String(0)
}
