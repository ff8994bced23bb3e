package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/mocks"
)

func pendingConversation(t *testing.T, f *fixture, id string, p booking.Proposal) {
	t.Helper()
	conv := conversation.New(id, time.Now())
	conv.Propose(p)
	require.NoError(t, f.conversations.Save(context.Background(), conv))
}

func TestConfirm_NoProposal(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)

	_, err := f.service.Confirm(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrNoProposal)

	_, err = f.service.Start(context.Background(), "started")
	require.NoError(t, err)
	_, err = f.service.Confirm(context.Background(), "started", nil)
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestConfirm_ServiceFailure(t *testing.T) {
	calendar := &mocks.MockEventService{}
	calendar.On("Name").Return("google")
	calendar.On("CreateEvent", mock.Anything, mock.Anything).
		Return(nil, errors.New("googleapi: Error 403: The caller does not have permission")).Once()
	calendar.On("CreateEvent", mock.Anything, mock.Anything).
		Return(&gcal.CreatedEvent{ID: "evt-1", HTMLLink: "https://calendar.google.com/event?eid=1"}, nil).Once()

	f := newFixture(t, agent.NewPolicy(friday), calendar, nil)
	ctx := context.Background()
	proposal := booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "14:00", EndTime: "15:30", Title: "Sync"}
	pendingConversation(t, f, "conv-x", proposal)

	outcome, err := f.service.Confirm(ctx, "conv-x", nil)
	require.NoError(t, err)
	assert.False(t, outcome.Committed())
	assert.Equal(t, conversation.StateRejected, outcome.State)
	assert.True(t, strings.HasPrefix(outcome.Message, "Calendar error: "))
	assert.Contains(t, outcome.Message, "The caller does not have permission")
	assert.Nil(t, outcome.Booking)
	assert.Empty(t, outcome.EventID)

	query := wellFormedShareLink(t, outcome.ShareLink)
	assert.Equal(t, "Sync", query.Get("text"))
	assert.Equal(t, "20261019T140000Z/20261019T153000Z", query.Get("dates"))
	assert.Equal(t, "Scheduled via Calendrix AI for Alex", query.Get("details"))

	records, err := f.db.ListRecentBookings(20)
	require.NoError(t, err)
	assert.Empty(t, records)

	conv, err := f.conversations.Load(ctx, "conv-x")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateRejected, conv.State)
	require.NotNil(t, conv.Pending)
	assert.Equal(t, proposal, *conv.Pending)
	calendar.AssertNumberOfCalls(t, "CreateEvent", 1)

	// resubmitting is the caller's decision
	outcome, err = f.service.Confirm(ctx, "conv-x", nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "evt-1", outcome.Booking.CalendarEventID)
	assert.Equal(t, "https://calendar.google.com/event?eid=1", outcome.Booking.EventLink)
	calendar.AssertNumberOfCalls(t, "CreateEvent", 2)
}

func TestConfirm_CallerCancelsDuringCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calendar := &mocks.MockEventService{}
	calendar.On("Name").Return("google")
	calendar.On("CreateEvent", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&gcal.CreatedEvent{ID: "evt-1", HTMLLink: "https://calendar.google.com/event?eid=1"}, nil)

	f := newFixture(t, agent.NewPolicy(friday), calendar, nil)
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "14:00", EndTime: "15:30", Title: "Sync"})

	outcome, err := f.service.Confirm(ctx, "conv-x", nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "evt-1", outcome.EventID)

	records, err := f.db.ListRecentBookings(20)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	conv, err := f.conversations.Load(context.Background(), "conv-x")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateCommitted, conv.State)
	assert.Nil(t, conv.Pending)

	// nothing left to confirm, so no second event
	_, err = f.service.Confirm(context.Background(), "conv-x", nil)
	assert.ErrorIs(t, err, ErrNoProposal)
	calendar.AssertNumberOfCalls(t, "CreateEvent", 1)
}

func TestConfirm_InvalidTimeFormat(t *testing.T) {
	calendar := &mocks.MockEventService{}
	f := newFixture(t, agent.NewPolicy(friday), calendar, nil)

	// passes the shape check but is not a real date
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-02-30", StartTime: "14:00", EndTime: "15:00", Title: "Sync"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", nil)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateRejected, outcome.State)
	assert.Equal(t, "Calendar error: invalid time format", outcome.Message)
	assert.Empty(t, outcome.ShareLink)

	calendar.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	records, err := f.db.ListRecentBookings(20)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestConfirm_OverrideIsRepairedAndDefaulted(t *testing.T) {
	calendar := &mocks.MockEventService{}
	calendar.On("CreateEvent", mock.Anything, mock.MatchedBy(func(input gcal.EventInput) bool {
		return input.Summary == "Meeting with Guest" &&
			input.StartTime.Equal(time.Date(2026, time.October, 19, 16, 0, 0, 0, time.UTC)) &&
			input.EndTime.Equal(time.Date(2026, time.October, 19, 18, 0, 0, 0, time.UTC))
	})).Return(&gcal.CreatedEvent{ID: "evt-2"}, nil)

	f := newFixture(t, agent.NewPolicy(friday), calendar, nil)

	outcome, err := f.service.Confirm(context.Background(), "", &booking.Proposal{
		Date:      "next monday",
		StartTime: "4pm",
		EndTime:   "6",
	})
	require.NoError(t, err)
	require.True(t, outcome.Committed())

	record := outcome.Booking
	assert.Equal(t, "Guest", record.Name)
	assert.Equal(t, "2026-10-19", record.Date)
	assert.Equal(t, "16:00", record.StartTime)
	assert.Equal(t, "18:00", record.EndTime)
	assert.Equal(t, "Meeting with Guest", record.Title)
	calendar.AssertExpectations(t)
}

func TestConfirm_OverrideWinsOverPending(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "14:00", EndTime: "15:00", Title: "Pending"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", &booking.Proposal{
		Name: "Alex", Date: "2026-10-20", StartTime: "09:00", EndTime: "09:30", Title: "Override",
	})
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "Override", outcome.Booking.Title)
	assert.Equal(t, "2026-10-20", outcome.Booking.Date)
}

func TestConfirm_StrictValuesAreNotRenormalized(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)

	// "06:00" would become 18:00 if it went through the time normalizer again
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-16", StartTime: "06:00", EndTime: "07:00", Title: "Early"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "2026-10-16", outcome.Booking.Date)
	assert.Equal(t, "06:00", outcome.Booking.StartTime)
	assert.Equal(t, "07:00", outcome.Booking.EndTime)
}

func TestConfirm_CrossesMidnight(t *testing.T) {
	calendar := &mocks.MockEventService{}
	calendar.On("CreateEvent", mock.Anything, mock.MatchedBy(func(input gcal.EventInput) bool {
		return input.EndTime.Sub(input.StartTime) == time.Hour && input.EndTime.Day() == 20
	})).Return(&gcal.CreatedEvent{ID: "evt-3"}, nil)

	f := newFixture(t, agent.NewPolicy(friday), calendar, nil)
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "23:30", EndTime: "00:30", Title: "Late"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "2026-10-19", outcome.Booking.Date)
	assert.Equal(t, "00:30", outcome.Booking.EndTime)
	calendar.AssertExpectations(t)
}

func TestConfirm_NotifiesAfterCommit(t *testing.T) {
	notifier := mocks.NewMockBookingNotifier()
	notifier.On("NotifyBooking", mock.Anything, mock.Anything).Return()

	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), notifier)
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "14:00", EndTime: "15:00", Title: "Sync"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())

	select {
	case record := <-notifier.Notified:
		assert.Equal(t, outcome.Booking.ID, record.ID)
		assert.Equal(t, "Sync", record.Title)
	case <-time.After(time.Second):
		t.Fatal("booking notification not sent")
	}
}

func TestConfirm_RejectionDoesNotNotify(t *testing.T) {
	notifier := mocks.NewMockBookingNotifier()
	calendar := &mocks.MockEventService{}
	calendar.On("CreateEvent", mock.Anything, mock.Anything).Return(nil, errors.New("unreachable"))

	f := newFixture(t, agent.NewPolicy(friday), calendar, notifier)
	pendingConversation(t, f, "conv-x", booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "14:00", EndTime: "15:00", Title: "Sync"})

	outcome, err := f.service.Confirm(context.Background(), "conv-x", nil)
	require.NoError(t, err)
	assert.False(t, outcome.Committed())
	notifier.AssertNotCalled(t, "NotifyBooking", mock.Anything, mock.Anything)
}

func TestRejectionMessage(t *testing.T) {
	long := strings.Repeat("x", 300)
	msg := rejectionMessage(errors.New(long))

	assert.Equal(t, "Calendar error: "+strings.Repeat("x", 200), msg)
	assert.Equal(t, "Calendar error: short", rejectionMessage(errors.New("short")))
}
