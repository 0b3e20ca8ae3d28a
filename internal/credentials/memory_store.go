package credentials

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryStore keeps the token for the lifetime of the process.
type memoryStore struct {
	opts Options

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

func (m *memoryStore) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || !m.expiry.After(m.opts.Now()) {
		return "", nil
	}
	return m.token, nil
}

func (m *memoryStore) Set(token string) error {
	token = strings.TrimSpace(token)
	now := m.opts.Now()
	m.mu.Lock()
	m.token = token
	m.expiry = expiryFor(token, now, m.opts.TTL)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Close() error { return nil }
