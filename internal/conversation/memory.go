package conversation

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store. Conversations are copied on the way in
// and out so callers never share state.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Conversation, error) {
	s.mu.Lock()
	data, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var c Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, c *Conversation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[c.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}
