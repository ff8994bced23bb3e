package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/omriShneor/calendrix/internal/booking"
)

// ErrNotFound is returned by a Store when no conversation exists for an id
var ErrNotFound = errors.New("conversation not found")

// State is where a conversation stands in the confirm/commit lifecycle
type State string

const (
	StateNoProposal      State = "no_proposal"
	StateProposalPending State = "proposal_pending"
	StateCommitted       State = "committed"
	StateRejected        State = "rejected"
)

// Conversation is the per-session context every dialogue turn and confirm
// action operates on. It is loaded fresh from a Store for each request.
type Conversation struct {
	ID         string            `json:"id"`
	Transcript []booking.Turn    `json:"transcript"`
	Pending    *booking.Proposal `json:"pending,omitempty"`
	State      State             `json:"state"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// New creates an empty conversation
func New(id string, now time.Time) *Conversation {
	return &Conversation{
		ID:        id,
		State:     StateNoProposal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the transcript
func (c *Conversation) Append(role booking.Role, content string) {
	c.Transcript = append(c.Transcript, booking.Turn{Role: role, Content: content})
}

// Propose replaces the pending proposal. The last proposal wins.
func (c *Conversation) Propose(p booking.Proposal) {
	c.Pending = &p
	c.State = StateProposalPending
}

// Store persists conversations between requests
type Store interface {
	Load(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, id string) error
}
