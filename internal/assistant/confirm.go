package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

const maxRejectionReason = 200

// Summary is the human-readable description of a committed booking
type Summary struct {
	Name        string `json:"name"`
	DateTime    string `json:"datetime"`
	DisplayDate string `json:"display_date"`
	DisplayTime string `json:"display_time"`
	Title       string `json:"title"`
}

// Outcome is the result of a confirm action. A rejected commit is an Outcome
// with State StateRejected and Message set, not an error.
type Outcome struct {
	State     conversation.State `json:"state"`
	Booking   *booking.Record    `json:"booking,omitempty"`
	EventID   string             `json:"event_id,omitempty"`
	EventLink string             `json:"event_link,omitempty"`
	ShareLink string             `json:"share_link,omitempty"`
	Summary   *Summary           `json:"summary,omitempty"`
	Message   string             `json:"error,omitempty"`
}

// Committed reports whether a booking was created
func (o *Outcome) Committed() bool {
	return o.State == conversation.StateCommitted
}

func newSummary(p booking.Proposal) *Summary {
	return &Summary{
		Name:        p.Name,
		DateTime:    timeutil.FormatDateTimeRange(p.Date, p.StartTime, p.EndTime),
		DisplayDate: timeutil.FormatDate(p.Date),
		DisplayTime: timeutil.FormatClockRange(p.StartTime, p.EndTime),
		Title:       p.Title,
	}
}

// Confirm validates the pending proposal (or override, when given), creates the
// calendar event and appends the booking. There is no retry: a failed commit is
// reported as a rejected Outcome and the caller resubmits.
//
// Errors are reserved for a missing proposal and store failures.
//
// A commit runs to completion once issued: cancelling ctx does not stop it.
func (s *Service) Confirm(ctx context.Context, conversationID string, override *booking.Proposal) (*Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	conv, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var candidate booking.Proposal
	switch {
	case override != nil:
		candidate = *override
	case conv.Pending != nil:
		candidate = *conv.Pending
	default:
		return nil, ErrNoProposal
	}

	proposal, repairs := booking.Repair(booking.WithDefaults(candidate), s.now)
	if repairs.Any() {
		s.logger.Info("repaired proposal fields",
			zap.String("conversation_id", conv.ID),
			zap.Bool("date", repairs.Date),
			zap.Bool("time_range", repairs.TimeRange),
			zap.Bool("end_time", repairs.EndTime),
		)
	}

	result, err := s.materializer.MakeEvent(ctx, gcal.EventRequest{
		Name:      proposal.Name,
		Date:      proposal.Date,
		StartTime: proposal.StartTime,
		EndTime:   proposal.EndTime,
		Title:     proposal.Title,
	})
	if err != nil {
		return s.reject(ctx, conv, proposal, result, err)
	}

	record := booking.Record{
		Name:            proposal.Name,
		Date:            proposal.Date,
		StartTime:       proposal.StartTime,
		EndTime:         proposal.EndTime,
		Title:           proposal.Title,
		CalendarEventID: result.EventID,
		EventLink:       result.EventLink,
		ShareLink:       result.ShareLink,
		CreatedAt:       s.now().UTC(),
	}
	id, err := s.bookings.AppendBooking(record)
	if err != nil {
		s.logger.Error("calendar event created but booking not stored",
			zap.String("conversation_id", conv.ID),
			zap.String("event_id", result.EventID),
			zap.Error(err),
		)
		return nil, err
	}
	record.ID = id

	conv.State = conversation.StateCommitted
	conv.Pending = nil
	conv.UpdatedAt = s.now()
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	s.logger.Info("booking committed",
		zap.String("conversation_id", conv.ID),
		zap.Int64("booking_id", id),
		zap.String("event_id", result.EventID),
	)

	if s.notifier != nil {
		notified := record
		go s.notifier.NotifyBooking(context.Background(), &notified)
	}

	return &Outcome{
		State:     conversation.StateCommitted,
		Booking:   &record,
		EventID:   result.EventID,
		EventLink: result.EventLink,
		ShareLink: result.ShareLink,
		Summary:   newSummary(proposal),
	}, nil
}

// reject records a failed commit. The repaired proposal stays pending so the
// caller can confirm again.
func (s *Service) reject(ctx context.Context, conv *conversation.Conversation, proposal booking.Proposal, result gcal.EventResult, cause error) (*Outcome, error) {
	var serviceErr *gcal.ServiceError
	if errors.As(cause, &serviceErr) {
		s.logger.Warn("calendar service failed", zap.String("conversation_id", conv.ID), zap.Error(cause))
	} else {
		s.logger.Info("commit rejected", zap.String("conversation_id", conv.ID), zap.Error(cause))
	}

	conv.Pending = &proposal
	conv.State = conversation.StateRejected
	conv.UpdatedAt = s.now()
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	return &Outcome{
		State:     conversation.StateRejected,
		ShareLink: result.ShareLink,
		Message:   rejectionMessage(cause),
	}, nil
}

func rejectionMessage(err error) string {
	reason := []rune(err.Error())
	if len(reason) > maxRejectionReason {
		reason = reason[:maxRejectionReason]
	}
	return fmt.Sprintf("Calendar error: %s", string(reason))
}
