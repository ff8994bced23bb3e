package notify

import (
	"context"

	"github.com/omriShneor/calendrix/internal/booking"
)

// Notifier sends a confirmation for a committed booking to a recipient
type Notifier interface {
	// Send sends a notification for a booking to the specified recipient
	Send(ctx context.Context, record *booking.Record, recipient string) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
