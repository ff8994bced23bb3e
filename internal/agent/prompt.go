package agent

import (
	"strings"
	"time"

	"github.com/omriShneor/calendrix/internal/agent/langpolicy"
	"github.com/omriShneor/calendrix/internal/booking"
)

const systemPromptTemplate = `You are Calendrix AI, a scheduling assistant.
Collect ONE AT A TIME: 1) name 2) date 3) time range 4) meeting title.
Ask ONE question per message (max 35 words).
For time, ask: "What time? (e.g., 4 PM to 6 PM or 4:00-6:00)"
After all 4 collected, confirm: "Perfect! [TITLE] for [NAME] on [DATE] from [START] to [END]. Create?"
Only after user confirms (yes/ok/sure/correct), output:
` + "```json" + `
{"name":"NAME","date":"YYYY-MM-DD","start_time":"HH:MM","end_time":"HH:MM","title":"TITLE","confirmed":true}
` + "```" + `
Parse dates: today={TODAY}, tomorrow={TOMORROW}. Times: 2pm=14:00, 9am=09:00.
Today={TODAY}. Tomorrow={TOMORROW}.`

const promptDateLayout = "Monday January 02 2006"

// SystemPrompt renders the language-model instructions for the given moment.
// When everything the user has written reads as a language other than English,
// the model is asked to reply in it.
func SystemPrompt(now time.Time, transcript []booking.Turn, utterance string) string {
	prompt := strings.NewReplacer(
		"{TODAY}", now.Format(promptDateLayout),
		"{TOMORROW}", now.AddDate(0, 0, 1).Format(promptDateLayout),
	).Replace(systemPromptTemplate)

	userText := strings.Join(append(booking.UserAnswers(transcript), utterance), " ")
	if instruction := langpolicy.ReplyInstruction(langpolicy.Detect(userText)); instruction != "" {
		prompt += "\n" + instruction
	}
	return prompt
}

// ChatMessage is a role/content pair in the shape chat-completion APIs expect
type ChatMessage struct {
	Role    string
	Content string
}

// BuildChatMessages turns a transcript plus the new utterance into chat messages,
// without the system prompt.
func BuildChatMessages(transcript []booking.Turn, utterance string) []ChatMessage {
	messages := make([]ChatMessage, 0, len(transcript)+1)
	for _, turn := range transcript {
		messages = append(messages, ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	return append(messages, ChatMessage{Role: string(booking.RoleUser), Content: utterance})
}

// TechnicalIssueReply is what the user sees when a language-model call fails.
func TechnicalIssueReply(err error) string {
	msg := []rune(err.Error())
	if len(msg) > 80 {
		msg = msg[:80]
	}
	return "Technical issue: " + string(msg) + ". Please try again."
}
