package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/booking"
)

const (
	callbackConfirm = "confirm"
	callbackCancel  = "cancel"

	failureReply = "Sorry, something went wrong on my side. Please try again."
)

// Dialogue is the assistant surface the bot drives
type Dialogue interface {
	Start(ctx context.Context, conversationID string) (*assistant.Reply, error)
	Chat(ctx context.Context, conversationID, utterance string) (*assistant.Reply, error)
	Confirm(ctx context.Context, conversationID string, override *booking.Proposal) (*assistant.Outcome, error)
}

// Handler maps Telegram updates onto dialogue turns. Each chat is one conversation.
type Handler struct {
	dialogue Dialogue
	sender   Sender
	logger   *zap.Logger
}

// NewHandler creates a handler replying through sender
func NewHandler(dialogue Dialogue, sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dialogue: dialogue,
		sender:   sender,
		logger:   logger,
	}
}

// ConversationID is the conversation a chat maps to
func ConversationID(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

// HandleUpdate processes a single update. Updates without text or a callback are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		h.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	id := ConversationID(chatID)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			reply, err := h.dialogue.Start(ctx, id)
			if err != nil {
				h.logger.Error("failed to start conversation", zap.Int64("chat_id", chatID), zap.Error(err))
				h.sendText(chatID, failureReply)
				return
			}
			h.sendText(chatID, reply.Text)
		default:
			h.sendText(chatID, "Send /start to book a new meeting.")
		}
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	reply, err := h.dialogue.Chat(ctx, id, msg.Text)
	if err != nil {
		h.logger.Error("chat turn failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendText(chatID, failureReply)
		return
	}

	out := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Proposal != nil {
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Create event", callbackConfirm),
				tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackCancel),
			),
		)
	}
	h.send(out)
}

func (h *Handler) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := h.sender.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
	if query.Message == nil || query.Message.Chat == nil {
		return
	}

	chatID := query.Message.Chat.ID
	h.clearButtons(chatID, query.Message.MessageID)

	switch query.Data {
	case callbackConfirm:
		h.confirm(ctx, chatID)
	case callbackCancel:
		h.sendText(chatID, "No problem. Tell me what you'd like to change.")
	default:
		h.logger.Debug("unknown callback", zap.String("data", query.Data))
	}
}

func (h *Handler) confirm(ctx context.Context, chatID int64) {
	outcome, err := h.dialogue.Confirm(ctx, ConversationID(chatID), nil)
	if errors.Is(err, assistant.ErrNoProposal) {
		h.sendText(chatID, "There is nothing to confirm yet. Tell me about your meeting first.")
		return
	}
	if err != nil {
		h.logger.Error("confirm failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendText(chatID, failureReply)
		return
	}

	h.sendText(chatID, formatOutcome(outcome))
}

func formatOutcome(outcome *assistant.Outcome) string {
	if !outcome.Committed() {
		text := outcome.Message
		if outcome.ShareLink != "" {
			text += "\n\nYou can still add it yourself: " + outcome.ShareLink
		}
		return text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Event created: %s\n%s", outcome.Summary.Title, outcome.Summary.DateTime)
	if outcome.EventLink != "" {
		fmt.Fprintf(&b, "\n\n%s", outcome.EventLink)
	}
	if outcome.ShareLink != "" {
		fmt.Fprintf(&b, "\n\nShare: %s", outcome.ShareLink)
	}
	return b.String()
}

func (h *Handler) clearButtons(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.sender.Request(edit); err != nil {
		h.logger.Debug("failed to clear buttons", zap.Error(err))
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.Warn("failed to send telegram message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}
