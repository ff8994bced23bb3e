package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	proposalBlockPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	anyJSONBlockPattern  = regexp.MustCompile("(?s)```json.*?```")
	emphasisPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// ExtractProposal looks for a fenced ```json block in an assistant reply and decodes it.
// A missing or malformed block yields nil.
func ExtractProposal(reply string) *Proposal {
	m := proposalBlockPattern.FindStringSubmatch(reply)
	if m == nil {
		return nil
	}

	var p Proposal
	if err := json.Unmarshal([]byte(m[1]), &p); err != nil {
		return nil
	}
	return &p
}

// UnmarshalJSON accepts any JSON object. Model output is not trusted to get the
// types right, so scalar fields are read as their text and confirmed may be a
// bool or a "true"/"false" string. Repair validates the values afterwards.
func (p *Proposal) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("proposal must be a JSON object")
	}

	*p = Proposal{
		Name:      fieldText(fields["name"]),
		Date:      fieldText(fields["date"]),
		StartTime: fieldText(fields["start_time"]),
		EndTime:   fieldText(fields["end_time"]),
		Title:     fieldText(fields["title"]),
		Confirmed: fieldBool(fields["confirmed"]),
	}
	return nil
}

func fieldText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func fieldBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// CleanReply strips the structured block and markdown bold markers, leaving the text a user sees.
func CleanReply(reply string) string {
	text := anyJSONBlockPattern.ReplaceAllString(reply, "")
	text = emphasisPattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// EmbedProposal renders p as a fenced block appended to prose, the inverse of ExtractProposal.
func EmbedProposal(prose string, p Proposal) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal proposal: %w", err)
	}
	return fmt.Sprintf("%s\n\n```json\n%s\n```", prose, data), nil
}
