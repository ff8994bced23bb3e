package testutil

import (
	"time"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

// Friday is the fixed "now" of test servers: "next monday" is 2026-10-19
// and "tomorrow" is 2026-10-17.
var Friday = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// FridayClock returns a clock frozen at Friday
func FridayClock() timeutil.Clock {
	return timeutil.FixedClock(Friday)
}

// ProposalBuilder builds test proposals
type ProposalBuilder struct {
	proposal booking.Proposal
}

// NewProposalBuilder creates a builder for a valid proposal
func NewProposalBuilder() *ProposalBuilder {
	return &ProposalBuilder{proposal: booking.Proposal{
		Name:      "Alex",
		Date:      "2026-10-19",
		StartTime: "14:00",
		EndTime:   "15:30",
		Title:     "Sync",
	}}
}

func (b *ProposalBuilder) WithName(name string) *ProposalBuilder {
	b.proposal.Name = name
	return b
}

func (b *ProposalBuilder) WithDate(date string) *ProposalBuilder {
	b.proposal.Date = date
	return b
}

func (b *ProposalBuilder) WithTimes(start, end string) *ProposalBuilder {
	b.proposal.StartTime = start
	b.proposal.EndTime = end
	return b
}

func (b *ProposalBuilder) WithTitle(title string) *ProposalBuilder {
	b.proposal.Title = title
	return b
}

// Build returns the proposal
func (b *ProposalBuilder) Build() booking.Proposal {
	return b.proposal
}
