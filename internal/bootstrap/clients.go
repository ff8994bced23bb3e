package bootstrap

import (
	"errors"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

// Clients holds the backends chosen from configuration
type Clients struct {
	Clock         timeutil.Clock
	Oracle        agent.Oracle
	Calendar      gcal.EventService
	Conversations conversation.Store
	// Notifier is nil unless booking e-mail is fully configured
	Notifier assistant.BookingNotifier

	closers []func() error
}

// Close releases connections opened during Initialize
func (c *Clients) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
