package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the subset of the Bot API the handler talks to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client runs the Telegram bot update loop
type Client struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	logger  *zap.Logger
}

// NewClient authenticates the bot token and prepares a handler around dialogue
func NewClient(token string, dialogue Dialogue, logger *zap.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate telegram bot: %w", err)
	}

	logger = logger.Named("telegram")
	return &Client{
		bot:     bot,
		handler: NewHandler(dialogue, bot, logger),
		logger:  logger,
	}, nil
}

// Run polls for updates until ctx is cancelled
func (c *Client) Run(ctx context.Context) {
	c.logger.Info("telegram bot started", zap.String("username", c.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)
	defer c.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			c.handler.HandleUpdate(ctx, update)
		}
	}
}
