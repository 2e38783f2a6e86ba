// Package session provides the per-browser-session key-value storage that the
// chat transcript is persisted in.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Storage.GetItem when nothing is stored under the key.
var ErrNotFound = errors.New("session: item not found")

// Pruner is implemented by storages that can drop idle sessions.
type Pruner interface {
	Prune(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// Storage is scoped by session id: two sessions never see each other's keys.
type Storage interface {
	GetItem(ctx context.Context, sessionID, key string) (string, error)
	SetItem(ctx context.Context, sessionID, key, value string) error
	RemoveItem(ctx context.Context, sessionID, key string) error
}

// MemoryStorage keeps items in process memory. Items are lost on restart,
// which matches browser session semantics.
type MemoryStorage struct {
	mu      sync.RWMutex
	items   map[string]map[string]string
	touched map[string]time.Time
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items:   make(map[string]map[string]string),
		touched: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Prune drops every session not written to within maxIdle and reports how
// many were dropped.
func (m *MemoryStorage) Prune(ctx context.Context, maxIdle time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-maxIdle)
	var n int64
	for id, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.items, id)
			delete(m.touched, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStorage) GetItem(ctx context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[sessionID][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) SetItem(ctx context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[sessionID]
	if !ok {
		bucket = make(map[string]string)
		m.items[sessionID] = bucket
	}
	bucket[key] = value
	m.touched[sessionID] = m.now()
	return nil
}

func (m *MemoryStorage) RemoveItem(ctx context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[sessionID], key)
	if len(m.items[sessionID]) == 0 {
		delete(m.items, sessionID)
		delete(m.touched, sessionID)
	}
	return nil
}
