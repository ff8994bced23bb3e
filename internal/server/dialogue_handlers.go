package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/booking"
)

const conversationCookie = "calendrix_conversation"

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type confirmRequest struct {
	ConversationID string            `json:"conversation_id"`
	Booking        *booking.Proposal `json:"booking"`
}

// conversationID prefers an explicit id in the body over the session cookie
func conversationID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cookie, err := r.Cookie(conversationCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func setConversationCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     conversationCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	reply, err := s.assistant.Start(r.Context(), "")
	if err != nil {
		s.logger.Error("failed to start conversation", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	setConversationCookie(w, reply.ConversationID)
	respondJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), conversationID(r, req.ConversationID), req.Message)
	if errors.Is(err, assistant.ErrEmptyInput) {
		respondError(w, http.StatusBadRequest, "Empty")
		return
	}
	if err != nil {
		s.logger.Error("chat turn failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	setConversationCookie(w, reply.ConversationID)
	respondJSON(w, http.StatusOK, reply)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	// an empty body confirms the pending proposal
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := s.assistant.Confirm(r.Context(), conversationID(r, req.ConversationID), req.Booking)
	if errors.Is(err, assistant.ErrNoProposal) {
		respondError(w, http.StatusBadRequest, "No booking data")
		return
	}
	if err != nil {
		s.logger.Error("confirm failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store booking")
		return
	}

	if !outcome.Committed() {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success":    false,
			"error":      outcome.Message,
			"share_link": outcome.ShareLink,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"booking_id": outcome.Booking.ID,
		"event_id":   outcome.EventID,
		"event_link": outcome.EventLink,
		"share_link": outcome.ShareLink,
		"summary":    outcome.Summary,
	})
}
