package agent

import (
	"context"

	"github.com/omriShneor/calendrix/internal/booking"
)

// Oracle produces the next assistant reply for a conversation.
// The reply may embed a fenced ```json proposal block (see booking.ExtractProposal).
type Oracle interface {
	Respond(ctx context.Context, transcript []booking.Turn, utterance string) (string, error)
	// Name identifies the oracle in status output and logs
	Name() string
}

// OracleFunc adapts a plain function to the Oracle interface
type OracleFunc func(ctx context.Context, transcript []booking.Turn, utterance string) (string, error)

func (f OracleFunc) Respond(ctx context.Context, transcript []booking.Turn, utterance string) (string, error) {
	return f(ctx, transcript, utterance)
}

func (f OracleFunc) Name() string {
	return "func"
}
