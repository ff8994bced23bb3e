package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/conversation"
)

// ConversationStore keeps conversations in the conversations table
type ConversationStore struct {
	db *DB
}

func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

func (s *ConversationStore) Load(ctx context.Context, id string) (*conversation.Conversation, error) {
	var (
		c          conversation.Conversation
		transcript string
		pending    sql.NullString
		state      string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, transcript, pending, state, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id).Scan(&c.ID, &transcript, &pending, &state, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, conversation.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	if err := json.Unmarshal([]byte(transcript), &c.Transcript); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if pending.Valid {
		var p booking.Proposal
		if err := json.Unmarshal([]byte(pending.String), &p); err != nil {
			return nil, fmt.Errorf("failed to decode pending proposal: %w", err)
		}
		c.Pending = &p
	}
	c.State = conversation.State(state)

	return &c, nil
}

func (s *ConversationStore) Save(ctx context.Context, c *conversation.Conversation) error {
	transcript, err := json.Marshal(c.Transcript)
	if err != nil {
		return err
	}
	if c.Transcript == nil {
		transcript = []byte("[]")
	}

	var pending sql.NullString
	if c.Pending != nil {
		b, err := json.Marshal(c.Pending)
		if err != nil {
			return err
		}
		pending = sql.NullString{String: string(b), Valid: true}
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, transcript, pending, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			transcript = excluded.transcript,
			pending = excluded.pending,
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP
	`, c.ID, string(transcript), pending, string(c.State), createdAt)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
