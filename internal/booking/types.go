package booking

import "time"

// Role identifies who produced a dialogue turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation transcript
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Proposal is a candidate booking pulled out of an assistant reply.
// Date and times are not trusted until they pass Repair.
type Proposal struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Title     string `json:"title"`
	Confirmed bool   `json:"confirmed"`
}

// Record is a committed booking. Records are append-only.
type Record struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Title           string    `json:"title"`
	CalendarEventID string    `json:"event_id"`
	EventLink       string    `json:"event_link"`
	ShareLink       string    `json:"share_link"`
	CreatedAt       time.Time `json:"created_at"`
}

// CountAssistantTurns returns how many assistant replies a transcript holds.
func CountAssistantTurns(transcript []Turn) int {
	n := 0
	for _, turn := range transcript {
		if turn.Role == RoleAssistant {
			n++
		}
	}
	return n
}

// UserAnswers returns the content of every user turn, in order.
func UserAnswers(transcript []Turn) []string {
	var answers []string
	for _, turn := range transcript {
		if turn.Role == RoleUser {
			answers = append(answers, turn.Content)
		}
	}
	return answers
}
