package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 300
)

// Config holds the OpenAI oracle configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// Client is a dialogue oracle backed by OpenAI chat completions
type Client struct {
	client *goopenai.Client
	config Config
	now    timeutil.Clock
}

// NewClient creates an OpenAI oracle. An empty BaseURL keeps the library default.
func NewClient(cfg Config, now timeutil.Clock) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if now == nil {
		now = timeutil.SystemClock(nil)
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		config: cfg,
		now:    now,
	}
}

func (c *Client) Name() string {
	return "openai"
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Respond performs one chat completion over the system prompt, transcript and utterance
func (c *Client) Respond(ctx context.Context, transcript []booking.Turn, utterance string) (string, error) {
	chat := agent.BuildChatMessages(transcript, utterance)

	messages := make([]goopenai.ChatCompletionMessage, 0, len(chat)+1)
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: agent.SystemPrompt(c.now(), transcript, utterance),
	})
	for _, m := range chat {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   defaultMaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}

	return resp.Choices[0].Message.Content, nil
}
