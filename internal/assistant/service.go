package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

// Greeting opens every conversation
const Greeting = "Hello! I'm Calendrix AI, your smart scheduling assistant. Let's get your meeting booked! What's your name?"

var (
	// ErrEmptyInput is returned for a blank utterance; the oracle is not called
	ErrEmptyInput = errors.New("empty input")
	// ErrNoProposal is returned by Confirm when there is nothing to commit
	ErrNoProposal = errors.New("no booking data")
)

// BookingStore is the append-only log of committed bookings
type BookingStore interface {
	AppendBooking(r booking.Record) (int64, error)
	ListRecentBookings(limit int) ([]booking.Record, error)
	GetBooking(id int64) (*booking.Record, error)
}

// BookingNotifier is told about every committed booking
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, record *booking.Record)
}

// Options wires a Service. Oracle, Conversations, Materializer and Bookings are required.
type Options struct {
	Oracle        agent.Oracle
	Conversations conversation.Store
	Materializer  *gcal.Materializer
	Bookings      BookingStore
	Notifier      BookingNotifier
	Clock         timeutil.Clock
	Logger        *zap.Logger
	NewID         func() string
}

// Service runs dialogue turns and confirm actions. It holds no per-conversation
// state: every call loads the conversation from the store and saves it back.
type Service struct {
	oracle        agent.Oracle
	conversations conversation.Store
	materializer  *gcal.Materializer
	bookings      BookingStore
	notifier      BookingNotifier
	now           timeutil.Clock
	newID         func() string
	logger        *zap.Logger
}

func NewService(opts Options) *Service {
	s := &Service{
		oracle:        opts.Oracle,
		conversations: opts.Conversations,
		materializer:  opts.Materializer,
		bookings:      opts.Bookings,
		notifier:      opts.Notifier,
		now:           opts.Clock,
		newID:         opts.NewID,
		logger:        opts.Logger,
	}
	if s.now == nil {
		s.now = timeutil.SystemClock(nil)
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("assistant")
	return s
}

// Reply is the outcome of one dialogue turn
type Reply struct {
	ConversationID string             `json:"conversation_id"`
	Text           string             `json:"clean_message"`
	Raw            string             `json:"message"`
	Proposal       *booking.Proposal  `json:"booking_data,omitempty"`
	State          conversation.State `json:"state"`
}

// Start begins a conversation with the greeting. An empty id gets a fresh one;
// an existing conversation with the same id is replaced.
func (s *Service) Start(ctx context.Context, conversationID string) (*Reply, error) {
	if conversationID == "" {
		conversationID = s.newID()
	}

	conv := conversation.New(conversationID, s.now())
	conv.Append(booking.RoleAssistant, Greeting)
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	return &Reply{
		ConversationID: conv.ID,
		Text:           Greeting,
		Raw:            Greeting,
		State:          conv.State,
	}, nil
}

// Chat runs one dialogue turn. Oracle failures become a technical-issue reply
// instead of an error so the conversation can continue.
func (s *Service) Chat(ctx context.Context, conversationID, utterance string) (*Reply, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, ErrEmptyInput
	}

	conv, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	raw, err := s.oracle.Respond(ctx, conv.Transcript, utterance)
	if err != nil {
		s.logger.Warn("oracle failed",
			zap.String("conversation_id", conv.ID),
			zap.String("oracle", s.oracle.Name()),
			zap.Error(err),
		)
		raw = agent.TechnicalIssueReply(err)
	}

	conv.Append(booking.RoleUser, utterance)
	conv.Append(booking.RoleAssistant, raw)

	reply := &Reply{
		ConversationID: conv.ID,
		Text:           booking.CleanReply(raw),
		Raw:            raw,
	}
	if p := booking.ExtractProposal(raw); p != nil {
		conv.Propose(*p)
		reply.Proposal = p
		s.logger.Debug("proposal pending", zap.String("conversation_id", conv.ID), zap.String("title", p.Title))
	}
	reply.State = conv.State

	conv.UpdatedAt = s.now()
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *Service) load(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	if conversationID == "" {
		return conversation.New(s.newID(), s.now()), nil
	}

	conv, err := s.conversations.Load(ctx, conversationID)
	if errors.Is(err, conversation.ErrNotFound) {
		return conversation.New(conversationID, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return conv, nil
}

// Status describes the active backends
type Status struct {
	Oracle     string `json:"oracle"`
	Calendar   string `json:"calendar"`
	TimeZone   string `json:"timezone"`
	DemoOracle bool   `json:"demo_mode"`
}

func (s *Service) Status() Status {
	return Status{
		Oracle:     s.oracle.Name(),
		Calendar:   s.materializer.ServiceName(),
		TimeZone:   s.materializer.TimeZone(),
		DemoOracle: s.oracle.Name() == "demo",
	}
}

// ListBookings returns the most recent committed bookings
func (s *Service) ListBookings(limit int) ([]booking.Record, error) {
	return s.bookings.ListRecentBookings(limit)
}

// GetBooking returns a committed booking, nil if it does not exist
func (s *Service) GetBooking(id int64) (*booking.Record, error) {
	return s.bookings.GetBooking(id)
}
