package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

const (
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 300
	anthropicVersion = "2023-06-01"

	// openingUserMessage stands in for the user turn the API requires before
	// the assistant greeting that starts every conversation.
	openingUserMessage = "Hi"
)

// Client is a dialogue oracle backed by the Anthropic Messages API
type Client struct {
	apiKey      string
	model       string
	apiURL      string
	httpClient  *http.Client
	temperature float64
	now         timeutil.Clock
}

// NewClient creates a new Claude API client
func NewClient(apiKey, model string, temperature float64, now timeutil.Clock) *Client {
	if model == "" {
		model = defaultModel
	}
	if temperature <= 0 {
		temperature = 0.7
	}
	if now == nil {
		now = timeutil.SystemClock(nil)
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		apiURL:      defaultAPIURL,
		temperature: temperature,
		now:         now,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// anthropicRequest represents the API request structure
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents the API response structure
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Name() string {
	return "claude"
}

// Respond sends the transcript and the new utterance to Claude and returns its reply text
func (c *Client) Respond(ctx context.Context, transcript []booking.Turn, utterance string) (string, error) {
	req := anthropicRequest{
		Model:       c.model,
		MaxTokens:   defaultMaxTokens,
		Temperature: c.temperature,
		System:      agent.SystemPrompt(c.now(), transcript, utterance),
		Messages:    buildMessages(transcript, utterance),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return text.String(), nil
}

// buildMessages maps the transcript onto API messages. The API wants the first
// message from the user, so a leading assistant greeting gets a placeholder before it.
func buildMessages(transcript []booking.Turn, utterance string) []anthropicMessage {
	chat := agent.BuildChatMessages(transcript, utterance)
	messages := make([]anthropicMessage, 0, len(chat)+1)
	if len(chat) > 0 && chat[0].Role != string(booking.RoleUser) {
		messages = append(messages, anthropicMessage{Role: string(booking.RoleUser), Content: openingUserMessage})
	}
	for _, m := range chat {
		messages = append(messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
