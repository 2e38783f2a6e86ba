package assistant

import (
	"context"
	"errors"
	"iruka/iruka/sources/session"
	"reflect"
	"testing"
)

const welcome = "Halo! Saya asisten Iruka Fabric."

func TestLoad_EmptyStorageYieldsWelcome(t *testing.T) {
	s := NewConversationStore(session.NewMemoryStorage(), "s1", welcome)
	got := s.Load(context.Background())
	if !reflect.DeepEqual(got, WelcomeTranscript(welcome)) {
		t.Errorf("expected welcome transcript, got %+v", got)
	}
}

func TestAppendThenLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	s := NewConversationStore(storage, "s1", welcome)

	if _, err := s.Append(ctx, UserMessage("Saya cari kain sutra")); err != nil {
		t.Fatalf("append user: %v", err)
	}
	want, err := s.Append(ctx, ChatMessage{Role: RoleAssistant, Content: "Kami punya sutra premium.", FabricIDs: []int{2}})
	if err != nil {
		t.Fatalf("append assistant: %v", err)
	}
	if len(want) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(want))
	}

	// a fresh store over the same storage simulates a page reload
	reloaded := NewConversationStore(storage, "s1", welcome).Load(ctx)
	if !reflect.DeepEqual(reloaded, want) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", want, reloaded)
	}

	other := NewConversationStore(storage, "s2", welcome).Load(ctx)
	if len(other) != 1 {
		t.Errorf("sessions must not share transcripts, got %+v", other)
	}
}

func TestAppend_SeveralMessagesInOneWrite(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore(session.NewMemoryStorage(), "s1", welcome)

	got, err := s.Append(ctx, UserMessage("sutra"), ChatMessage{Role: RoleAssistant, Content: "Ini dia", FabricIDs: []int{2}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(got) != 3 || !reflect.DeepEqual(s.Load(ctx), got) {
		t.Errorf("expected both turns persisted, got %+v", s.Load(ctx))
	}

	if _, err := s.Append(ctx, UserMessage("batik"), ChatMessage{Role: RoleAssistant, Content: " "}); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
	if len(s.Load(ctx)) != 3 {
		t.Error("a rejected batch must not store any of its messages")
	}
}

func TestStore_FailedWriteKeepsPreviousTranscript(t *testing.T) {
	ctx := context.Background()
	storage := &failAfter{Storage: session.NewMemoryStorage(), ok: 1}
	s := NewConversationStore(storage, "s1", welcome)

	if _, err := s.Append(ctx, UserMessage("halo"), ChatMessage{Role: RoleAssistant, Content: "Halo juga"}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if _, err := s.Append(ctx, UserMessage("hai"), ChatMessage{Role: RoleAssistant, Content: "Hai"}); !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage error, got %v", err)
	}
	got := s.Load(ctx)
	if len(got) != 3 || got[len(got)-1].Role != RoleAssistant {
		t.Errorf("failed write should leave the previous transcript, got %+v", got)
	}
}

func TestAppend_RejectsEmptyAndUnknownRole(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore(session.NewMemoryStorage(), "s1", welcome)

	if _, err := s.Append(ctx, UserMessage("   ")); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := s.Append(ctx, ChatMessage{Role: "bot", Content: "hi"}); err == nil {
		t.Error("expected error for unknown role")
	}
	if got := s.Load(ctx); len(got) != 1 {
		t.Errorf("rejected messages must not be stored, got %+v", got)
	}
}

func TestReset_ClearsStorage(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	s := NewConversationStore(storage, "s1", welcome)
	s.Append(ctx, UserMessage("halo"))

	got, err := s.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reflect.DeepEqual(got, WelcomeTranscript(welcome)) {
		t.Errorf("reset should return the welcome transcript, got %+v", got)
	}
	if _, err := storage.GetItem(ctx, "s1", TranscriptKey); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("reset should clear persisted data, got %v", err)
	}
}

func TestLoad_CorruptDataYieldsWelcome(t *testing.T) {
	cases := []string{
		"not json",
		"null",
		"{}",
		"[]",
		`{"role":"user"}`,
		`[{"role":"user","content":""}]`,
		`[{"role":"robot","content":"x"}]`,
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			storage := session.NewMemoryStorage()
			storage.SetItem(ctx, "s1", TranscriptKey, raw)
			got := NewConversationStore(storage, "s1", welcome).Load(ctx)
			if !reflect.DeepEqual(got, WelcomeTranscript(welcome)) {
				t.Errorf("expected welcome transcript, got %+v", got)
			}
		})
	}
}

func TestLoad_DropsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	storage.SetItem(ctx, "s1", TranscriptKey,
		`[{"role":"assistant","content":"hai"},{"role":"user","content":""},{"role":"user","content":"sutra"}]`)

	got := NewConversationStore(storage, "s1", welcome).Load(ctx)
	want := Transcript{{Role: RoleAssistant, Content: "hai"}, {Role: RoleUser, Content: "sutra"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %+v, got %+v", want, got)
	}
}

func TestStore_StorageFailures(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore(failingStorage{}, "s1", welcome)

	if got := s.Load(ctx); len(got) != 1 || got[0].Content != welcome {
		t.Errorf("unreadable storage should yield welcome, got %+v", got)
	}
	if _, err := s.Append(ctx, UserMessage("halo")); !errors.Is(err, errStorageDown) {
		t.Errorf("expected storage error from Append, got %v", err)
	}
	if _, err := s.Reset(ctx); !errors.Is(err, errStorageDown) {
		t.Errorf("expected storage error from Reset, got %v", err)
	}
}

func TestTranscriptLast(t *testing.T) {
	tr := Transcript{UserMessage("1"), UserMessage("2"), UserMessage("3"), UserMessage("4")}
	if got := tr.Last(3); len(got) != 3 || got[0].Content != "2" {
		t.Errorf("unexpected tail %+v", got)
	}
	if got := tr.Last(10); len(got) != 4 {
		t.Errorf("short transcript should be returned whole, got %d", len(got))
	}
	if got := tr.Last(0); len(got) != 0 {
		t.Errorf("expected empty, got %+v", got)
	}
}
