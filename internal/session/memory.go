package session

import (
	"context"
	"encoding/json"
	"sync"

	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

// MemoryStore keeps sessions in process memory. Safe for concurrent use
// across sessions; the default backend for single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore builds an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string][]byte{}}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return &Session{ID: id}, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &sess, nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}

	m.mu.Lock()
	m.sessions[sess.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
