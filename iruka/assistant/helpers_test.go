package assistant

import (
	"context"
	"errors"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/sources/session"
	"sync"
	"testing"
)

// stubCompleter records every request and replies with a fixed payload or error.
type stubCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.ChatRequest
}

func (s *stubCompleter) Run(_ context.Context, req llm.ChatRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.reply, s.err
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Batik Tulis Pekalongan", Category: "Batik", Price: "Rp 350.000", Origin: "Pekalongan", Image: "/img/1.jpg"},
		{ID: 2, Name: "Sutra Premium Garut", Category: "Sutra", Price: "Rp 275.000", Origin: "Garut", Image: "/img/2.jpg"},
		{ID: 3, Name: "Tenun Ikat Sumba", Category: "Tenun", Price: "Rp 450.000", Origin: "Sumba", Image: "/img/3.jpg"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// failingStorage fails every call.
type failingStorage struct{}

var errStorageDown = errors.New("storage down")

func (failingStorage) GetItem(context.Context, string, string) (string, error) {
	return "", errStorageDown
}

func (failingStorage) SetItem(context.Context, string, string, string) error {
	return errStorageDown
}

func (failingStorage) RemoveItem(context.Context, string, string) error {
	return errStorageDown
}

// failAfter lets the first ok writes through and fails the rest.
type failAfter struct {
	session.Storage
	ok     int
	writes int
}

func (f *failAfter) SetItem(ctx context.Context, sessionID, key, value string) error {
	f.writes++
	if f.writes > f.ok {
		return errStorageDown
	}
	return f.Storage.SetItem(ctx, sessionID, key, value)
}
