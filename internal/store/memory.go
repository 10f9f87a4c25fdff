package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

// Memory keeps encoded drafts in process memory. Drafts are lost on restart.
type Memory struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{drafts: map[string][]byte{}}
}

func (m *Memory) Load(ctx context.Context, id string) (draft.Draft, error) {
	m.mu.Lock()
	b, ok := m.drafts[id]
	m.mu.Unlock()
	if !ok {
		return draft.Draft{}, internaltypes.ErrNotFound
	}
	d, err := draft.Decode(b)
	if err != nil {
		return draft.Default(), fmt.Errorf("%w: %v", internaltypes.ErrCorrupt, err)
	}
	return d, nil
}

func (m *Memory) Save(ctx context.Context, id string, d draft.Draft) error {
	b, err := draft.Encode(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.drafts[id] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return internaltypes.ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}
