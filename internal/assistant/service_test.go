package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/database"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/mocks"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

// Friday, so "next monday" is 2026-10-19 and "tomorrow" is 2026-10-17
var friday = timeutil.FixedClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC))

type fixture struct {
	service       *Service
	db            *database.DB
	conversations conversation.Store
}

func newFixture(t *testing.T, oracle agent.Oracle, calendar gcal.EventService, notifier BookingNotifier) *fixture {
	t.Helper()

	db := database.NewTestDB(t)
	conversations := database.NewConversationStore(db)

	counter := 0
	service := NewService(Options{
		Oracle:        oracle,
		Conversations: conversations,
		Materializer:  gcal.NewMaterializer(calendar, "UTC"),
		Bookings:      db,
		Notifier:      notifier,
		Clock:         friday,
		Logger:        zap.NewNop(),
		NewID: func() string {
			counter++
			return fmt.Sprintf("conv-%d", counter)
		},
	})

	return &fixture{service: service, db: db, conversations: conversations}
}

func chatAll(t *testing.T, s *Service, id string, utterances ...string) *Reply {
	t.Helper()
	var reply *Reply
	for _, u := range utterances {
		var err error
		reply, err = s.Chat(context.Background(), id, u)
		require.NoError(t, err)
	}
	return reply
}

func TestStart(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)

	reply, err := f.service.Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", reply.ConversationID)
	assert.Equal(t, Greeting, reply.Text)
	assert.Equal(t, conversation.StateNoProposal, reply.State)

	conv, err := f.conversations.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, []booking.Turn{{Role: booking.RoleAssistant, Content: Greeting}}, conv.Transcript)
}

func TestStart_ReplacesExistingConversation(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	ctx := context.Background()

	_, err := f.service.Start(ctx, "chat-42")
	require.NoError(t, err)
	chatAll(t, f.service, "chat-42", "Alex", "tomorrow")

	_, err = f.service.Start(ctx, "chat-42")
	require.NoError(t, err)

	conv, err := f.conversations.Load(ctx, "chat-42")
	require.NoError(t, err)
	assert.Len(t, conv.Transcript, 1)
}

func TestEndToEndBooking(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	ctx := context.Background()

	start, err := f.service.Start(ctx, "")
	require.NoError(t, err)
	id := start.ConversationID

	reply := chatAll(t, f.service, id, "Alex", "next monday", "2 to 3:30")
	assert.Nil(t, reply.Proposal)
	assert.Equal(t, conversation.StateNoProposal, reply.State)

	reply = chatAll(t, f.service, id, "Sync")
	require.NotNil(t, reply.Proposal)
	assert.Equal(t, booking.Proposal{
		Name:      "Alex",
		Date:      "2026-10-19",
		StartTime: "14:00",
		EndTime:   "15:30",
		Title:     "Sync",
		Confirmed: false,
	}, *reply.Proposal)
	assert.Equal(t, conversation.StateProposalPending, reply.State)
	assert.NotContains(t, reply.Text, "```")
	assert.Contains(t, reply.Raw, "```json")

	outcome, err := f.service.Confirm(ctx, id, nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.True(t, strings.HasPrefix(outcome.EventID, "demo_"))
	assert.NotEmpty(t, outcome.ShareLink)
	assert.Empty(t, outcome.Message)

	require.NotNil(t, outcome.Summary)
	assert.Equal(t, Summary{
		Name:        "Alex",
		DateTime:    "Monday, October 19, 2026 from 2:00 PM to 3:30 PM",
		DisplayDate: "Monday, October 19, 2026",
		DisplayTime: "2:00 PM to 3:30 PM",
		Title:       "Sync",
	}, *outcome.Summary)

	records, err := f.db.ListRecentBookings(20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, outcome.Booking.ID, record.ID)
	assert.Equal(t, "Alex", record.Name)
	assert.Equal(t, "2026-10-19", record.Date)
	assert.Equal(t, "14:00", record.StartTime)
	assert.Equal(t, "15:30", record.EndTime)
	assert.Equal(t, "Sync", record.Title)
	assert.Equal(t, outcome.EventID, record.CalendarEventID)
	assert.Equal(t, outcome.ShareLink, record.ShareLink)

	conv, err := f.conversations.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateCommitted, conv.State)
	assert.Nil(t, conv.Pending)
	assert.Len(t, conv.Transcript, 9)

	_, err = f.service.Confirm(ctx, id, nil)
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestSkipTitle(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	ctx := context.Background()

	start, err := f.service.Start(ctx, "")
	require.NoError(t, err)

	reply := chatAll(t, f.service, start.ConversationID, "Alex", "tomorrow", "3", "skip")
	require.NotNil(t, reply.Proposal)
	assert.Equal(t, "Meeting with Alex", reply.Proposal.Title)
	assert.Equal(t, "2026-10-17", reply.Proposal.Date)
	assert.Equal(t, "15:00", reply.Proposal.StartTime)
	assert.Equal(t, "16:00", reply.Proposal.EndTime)

	outcome, err := f.service.Confirm(ctx, start.ConversationID, nil)
	require.NoError(t, err)
	require.True(t, outcome.Committed())
	assert.Equal(t, "Meeting with Alex", outcome.Booking.Title)
}

func TestChat_EmptyInput(t *testing.T) {
	oracle := &mocks.MockOracle{}
	f := newFixture(t, oracle, gcal.NewDemoCalendar(), nil)

	for _, utterance := range []string{"", "   ", "\n\t"} {
		_, err := f.service.Chat(context.Background(), "conv-x", utterance)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	oracle.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything)
	_, err := f.conversations.Load(context.Background(), "conv-x")
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestChat_OracleFailureBecomesReply(t *testing.T) {
	oracle := &mocks.MockOracle{}
	oracle.On("Respond", mock.Anything, mock.Anything, "Alex").Return("", errors.New("connection reset by peer"))
	oracle.On("Name").Return("openai")
	f := newFixture(t, oracle, gcal.NewDemoCalendar(), nil)

	reply, err := f.service.Chat(context.Background(), "conv-x", "Alex")
	require.NoError(t, err)
	assert.Equal(t, "Technical issue: connection reset by peer. Please try again.", reply.Text)
	assert.Nil(t, reply.Proposal)

	conv, err := f.conversations.Load(context.Background(), "conv-x")
	require.NoError(t, err)
	require.Len(t, conv.Transcript, 2)
	assert.Equal(t, reply.Text, conv.Transcript[1].Content)
	oracle.AssertExpectations(t)
}

func TestChat_TrimsAndPassesTranscript(t *testing.T) {
	oracle := &mocks.MockOracle{}
	oracle.On("Respond", mock.Anything, []booking.Turn{{Role: booking.RoleAssistant, Content: Greeting}}, "Alex").
		Return("What date works for your meeting?", nil)
	f := newFixture(t, oracle, gcal.NewDemoCalendar(), nil)

	_, err := f.service.Start(context.Background(), "conv-x")
	require.NoError(t, err)

	reply, err := f.service.Chat(context.Background(), "conv-x", "  Alex  ")
	require.NoError(t, err)
	assert.Equal(t, "What date works for your meeting?", reply.Text)
	oracle.AssertExpectations(t)
}

func proposalReply(t *testing.T, p booking.Proposal) string {
	t.Helper()
	reply, err := booking.EmbedProposal("Shall I book it?", p)
	require.NoError(t, err)
	return reply
}

func TestChat_LastProposalWins(t *testing.T) {
	first := booking.Proposal{Name: "Alex", Date: "2026-10-19", StartTime: "09:00", EndTime: "10:00", Title: "First"}
	second := booking.Proposal{Name: "Alex", Date: "2026-10-20", StartTime: "11:00", EndTime: "12:00", Title: "Second"}

	oracle := &mocks.MockOracle{}
	oracle.On("Respond", mock.Anything, mock.Anything, "one").Return(proposalReply(t, first), nil)
	oracle.On("Respond", mock.Anything, mock.Anything, "two").Return(proposalReply(t, second), nil)
	oracle.On("Respond", mock.Anything, mock.Anything, "chit-chat").Return("Anything else?", nil)
	f := newFixture(t, oracle, gcal.NewDemoCalendar(), nil)

	chatAll(t, f.service, "conv-x", "one", "two")
	reply := chatAll(t, f.service, "conv-x", "chit-chat")
	assert.Nil(t, reply.Proposal)
	assert.Equal(t, conversation.StateProposalPending, reply.State)

	conv, err := f.conversations.Load(context.Background(), "conv-x")
	require.NoError(t, err)
	require.NotNil(t, conv.Pending)
	assert.Equal(t, second, *conv.Pending)
}

func TestChat_MalformedProposalIsIgnored(t *testing.T) {
	oracle := &mocks.MockOracle{}
	oracle.On("Respond", mock.Anything, mock.Anything, "book it").
		Return("Sure!\n```json\n{\"name\": \"Alex\", \n```", nil)
	f := newFixture(t, oracle, gcal.NewDemoCalendar(), nil)

	reply, err := f.service.Chat(context.Background(), "conv-x", "book it")
	require.NoError(t, err)
	assert.Nil(t, reply.Proposal)
	assert.Equal(t, conversation.StateNoProposal, reply.State)
}

func TestChat_ConversationsAreIndependent(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	ctx := context.Background()

	a, err := f.service.Start(ctx, "")
	require.NoError(t, err)
	b, err := f.service.Start(ctx, "")
	require.NoError(t, err)

	chatAll(t, f.service, a.ConversationID, "Alex")
	chatAll(t, f.service, b.ConversationID, "Blair")
	chatAll(t, f.service, a.ConversationID, "next monday", "2 to 3:30")
	chatAll(t, f.service, b.ConversationID, "tomorrow", "9am-10am")
	replyA := chatAll(t, f.service, a.ConversationID, "Sync")
	replyB := chatAll(t, f.service, b.ConversationID, "skip")

	require.NotNil(t, replyA.Proposal)
	require.NotNil(t, replyB.Proposal)
	assert.Equal(t, "Alex", replyA.Proposal.Name)
	assert.Equal(t, "Blair", replyB.Proposal.Name)
	assert.Equal(t, "09:00", replyB.Proposal.StartTime)
	assert.Equal(t, "Meeting with Blair", replyB.Proposal.Title)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)

	assert.Equal(t, Status{Oracle: "demo", Calendar: "demo", TimeZone: "UTC", DemoOracle: true}, f.service.Status())
}

func TestListAndGetBookings(t *testing.T) {
	f := newFixture(t, agent.NewPolicy(friday), gcal.NewDemoCalendar(), nil)
	created := database.CreateTestBooking(t, f.db, "Sync")

	records, err := f.service.ListBookings(0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got, err := f.service.GetBooking(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sync", got.Title)

	missing, err := f.service.GetBooking(created.ID + 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func wellFormedShareLink(t *testing.T, link string) url.Values {
	t.Helper()
	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?action=TEMPLATE&text="), link)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	return parsed.Query()
}
