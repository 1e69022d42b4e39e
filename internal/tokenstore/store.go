package tokenstore

import (
	"context"
	"sync"
)

// Store is the single durable credential slot. Every outbound API call
// reads it; only login writes it and only logout clears it.
type Store interface {
	// Token returns the stored token, or "" when the slot is empty.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory { return &Memory{token: token} }

func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	return m.SetToken(ctx, "")
}

func (m *Memory) Close() error { return nil }
