package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

var skipKeywords = map[string]bool{
	"skip": true,
	"no":   true,
	"none": true,
	"":     true,
}

// Policy is the deterministic oracle used when no language model is configured.
// It asks for name, date, time range and title in that order, keyed on how many
// assistant replies the transcript already holds, then proposes the booking.
type Policy struct {
	now timeutil.Clock
}

// NewPolicy creates a Policy resolving relative dates against now
func NewPolicy(now timeutil.Clock) *Policy {
	return &Policy{now: now}
}

func (p *Policy) Name() string {
	return "demo"
}

// Respond never fails.
func (p *Policy) Respond(_ context.Context, transcript []booking.Turn, utterance string) (string, error) {
	step := booking.CountAssistantTurns(transcript)
	answers := append(booking.UserAnswers(transcript), utterance)

	switch step {
	case 0:
		return "Hi! I'm Calendrix AI (demo mode). What's your name?", nil
	case 1:
		return fmt.Sprintf("Great, %s! What date works for your meeting?", strings.TrimSpace(utterance)), nil
	case 2:
		return "Perfect! What time? (e.g., 4 PM to 6 PM or 4:00-6:00)", nil
	case 3:
		return "What should we call this meeting? (or say 'skip')", nil
	}

	return p.propose(answers, utterance)
}

func (p *Policy) propose(answers []string, utterance string) (string, error) {
	name := strings.TrimSpace(answers[0])
	if name == "" {
		name = booking.DefaultName
	}

	date := timeutil.NormalizeDate("tomorrow", p.now)
	if len(answers) > 1 {
		date = timeutil.NormalizeDate(answers[1], p.now)
	}

	start, end := booking.DefaultStartTime, booking.DefaultEndTime
	if len(answers) > 2 {
		start, end = timeutil.NormalizeTimeRange(answers[2])
	}

	title := strings.TrimSpace(utterance)
	if skipKeywords[strings.ToLower(title)] {
		title = booking.DefaultTitle(name)
	}

	prose := fmt.Sprintf("Perfect! Just to confirm: **%s** for **%s** on **%s** from **%s** to **%s**. Shall I create this event?",
		title, name, timeutil.FormatDate(date), timeutil.FormatClock(start), timeutil.FormatClock(end))

	return booking.EmbedProposal(prose, booking.Proposal{
		Name:      name,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Title:     title,
		Confirmed: false,
	})
}
