package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var friday = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// converse feeds answers one at a time, recording every turn like the assistant does.
func converse(t *testing.T, oracle Oracle, transcript []booking.Turn, answers ...string) ([]booking.Turn, string) {
	t.Helper()
	var reply string
	for _, answer := range answers {
		var err error
		reply, err = oracle.Respond(context.Background(), transcript, answer)
		require.NoError(t, err)
		transcript = append(transcript,
			booking.Turn{Role: booking.RoleUser, Content: answer},
			booking.Turn{Role: booking.RoleAssistant, Content: reply},
		)
	}
	return transcript, reply
}

func TestPolicy_AsksForEachSlotInOrder(t *testing.T) {
	policy := NewPolicy(timeutil.FixedClock(friday))
	ctx := context.Background()

	reply, err := policy.Respond(ctx, nil, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "What's your name?")

	greeting := []booking.Turn{{Role: booking.RoleAssistant, Content: "What's your name?"}}

	reply, err = policy.Respond(ctx, greeting, "  Alex ")
	require.NoError(t, err)
	assert.Equal(t, "Great, Alex! What date works for your meeting?", reply)

	transcript, reply := converse(t, policy, greeting, "Alex", "next monday")
	assert.Contains(t, reply, "What time?")
	assert.Len(t, transcript, 5)

	_, reply = converse(t, policy, greeting, "Alex", "next monday", "2 to 3:30")
	assert.Contains(t, reply, "(or say 'skip')")
	assert.Nil(t, booking.ExtractProposal(reply))
}

func TestPolicy_ProposesAfterFourAnswers(t *testing.T) {
	policy := NewPolicy(timeutil.FixedClock(friday))
	greeting := []booking.Turn{{Role: booking.RoleAssistant, Content: "What's your name?"}}

	_, reply := converse(t, policy, greeting, "Alex", "next monday", "2 to 3:30", "Sync")

	p := booking.ExtractProposal(reply)
	require.NotNil(t, p)
	assert.Equal(t, booking.Proposal{
		Name:      "Alex",
		Date:      "2026-10-19",
		StartTime: "14:00",
		EndTime:   "15:30",
		Title:     "Sync",
		Confirmed: false,
	}, *p)

	assert.Equal(t,
		"Perfect! Just to confirm: Sync for Alex on Monday, October 19, 2026 from 2:00 PM to 3:30 PM. Shall I create this event?",
		booking.CleanReply(reply))
}

func TestPolicy_SkipTitle(t *testing.T) {
	policy := NewPolicy(timeutil.FixedClock(friday))
	greeting := []booking.Turn{{Role: booking.RoleAssistant, Content: "What's your name?"}}

	for _, skip := range []string{"skip", "SKIP", "no", "none", " "} {
		t.Run(skip, func(t *testing.T) {
			_, reply := converse(t, policy, greeting, "Alex", "tomorrow", "4pm-6", skip)

			p := booking.ExtractProposal(reply)
			require.NotNil(t, p)
			assert.Equal(t, "Meeting with Alex", p.Title)
			assert.Equal(t, "2026-10-17", p.Date)
			assert.Equal(t, "16:00", p.StartTime)
			assert.Equal(t, "18:00", p.EndTime)
		})
	}
}

func TestPolicy_LaterTurnsKeepProposing(t *testing.T) {
	policy := NewPolicy(timeutil.FixedClock(friday))
	greeting := []booking.Turn{{Role: booking.RoleAssistant, Content: "What's your name?"}}

	_, reply := converse(t, policy, greeting, "Alex", "friday", "10", "Planning", "Retro")

	p := booking.ExtractProposal(reply)
	require.NotNil(t, p)
	assert.Equal(t, "Retro", p.Title)
	assert.Equal(t, "2026-10-23", p.Date)
	assert.Equal(t, "10:00", p.StartTime)
	assert.Equal(t, "11:00", p.EndTime)
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt(friday, nil, "Alex")

	assert.Contains(t, prompt, "Today=Friday October 16 2026.")
	assert.Contains(t, prompt, "tomorrow=Saturday October 17 2026.")
	assert.NotContains(t, prompt, "{TODAY}")
	assert.True(t, strings.HasPrefix(prompt, "You are Calendrix AI"))
	assert.True(t, strings.HasSuffix(prompt, "Tomorrow=Saturday October 17 2026."))
}

func TestSystemPrompt_ReplyLanguage(t *testing.T) {
	transcript := []booking.Turn{
		{Role: booking.RoleAssistant, Content: "What's your name?"},
		{Role: booking.RoleUser, Content: "Lucía"},
	}

	prompt := SystemPrompt(friday, transcript, "mañana, reunión con el equipo")
	assert.Contains(t, prompt, "The user writes in Spanish (es).")

	english := SystemPrompt(friday, transcript, "tomorrow please, meeting with the team")
	assert.NotContains(t, english, "The user writes in")
}

func TestBuildChatMessages(t *testing.T) {
	transcript := []booking.Turn{
		{Role: booking.RoleAssistant, Content: "What's your name?"},
		{Role: booking.RoleUser, Content: "Alex"},
	}

	messages := BuildChatMessages(transcript, "monday")
	require.Len(t, messages, 3)
	assert.Equal(t, ChatMessage{Role: "assistant", Content: "What's your name?"}, messages[0])
	assert.Equal(t, ChatMessage{Role: "user", Content: "monday"}, messages[2])
}

func TestTechnicalIssueReply(t *testing.T) {
	assert.Equal(t, "Technical issue: boom. Please try again.", TechnicalIssueReply(errors.New("boom")))

	long := TechnicalIssueReply(errors.New(strings.Repeat("x", 200)))
	assert.Equal(t, "Technical issue: "+strings.Repeat("x", 80)+". Please try again.", long)

	// provider errors may carry non-ASCII text
	accented := TechnicalIssueReply(errors.New(strings.Repeat("é", 100)))
	assert.Equal(t, "Technical issue: "+strings.Repeat("é", 80)+". Please try again.", accented)
	assert.True(t, utf8.ValidString(accented))
}

func TestOracleFunc(t *testing.T) {
	var oracle Oracle = OracleFunc(func(_ context.Context, transcript []booking.Turn, utterance string) (string, error) {
		return "echo: " + utterance, nil
	})

	reply, err := oracle.Respond(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", reply)
	assert.Equal(t, "func", oracle.Name())
}
