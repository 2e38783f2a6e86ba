package controllers

import (
	"context"
	"errors"
	"iruka/iruka/assistant"
	"iruka/iruka/assistant/configs"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/sources/session"
	"testing"
)

// completerFunc adapts a function to assistant.Completer.
type completerFunc func(ctx context.Context, req llm.ChatRequest) (string, error)

func (f completerFunc) Run(ctx context.Context, req llm.ChatRequest) (string, error) {
	return f(ctx, req)
}

func fixedReply(raw string) completerFunc {
	return func(context.Context, llm.ChatRequest) (string, error) { return raw, nil }
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Batik Tulis Pekalongan", Category: "Batik", Price: "Rp 350.000", Image: "/img/1.jpg"},
		{ID: 2, Name: "Sutra Premium Garut", Category: "Sutra", Price: "Rp 275.000", Image: "/img/2.jpg"},
		{ID: 3, Name: "Batik Cap Solo", Category: "Batik", Price: "Rp 120.000", Image: "/img/3.jpg"},
		{ID: 4, Name: "Linen Rami", Category: "Linen", Price: "Rp 95.000", Image: "/img/4.jpg"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func testResolver(t *testing.T, c *catalog.Catalog, completer assistant.Completer) *assistant.Resolver {
	t.Helper()
	return assistant.NewResolver(completer, c, configs.DefaultProfile(), assistant.DefaultOptions())
}

// flakyStorage fails every SetItem after the first okWrites.
type flakyStorage struct {
	*session.MemoryStorage
	okWrites int
	writes   int
}

var errWriteFailed = errors.New("storage down")

func (f *flakyStorage) SetItem(ctx context.Context, sessionID, key, value string) error {
	f.writes++
	if f.writes > f.okWrites {
		return errWriteFailed
	}
	return f.MemoryStorage.SetItem(ctx, sessionID, key, value)
}
