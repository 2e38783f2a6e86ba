package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iruka/iruka/sources/session"
	"iruka/iruka/utils/logging"
	"strings"

	"go.uber.org/zap"
)

// TranscriptKey is the session storage key the transcript lives under. It is
// the key the website used for sessionStorage, typo included.
const TranscriptKey = "iruca_fabric_chat"

var ErrEmptyContent = errors.New("assistant: message content is empty")

// ConversationStore persists one session's transcript. Every mutation writes
// the whole transcript back (last write wins, no merge).
type ConversationStore struct {
	storage   session.Storage
	sessionID string
	welcome   string
}

func NewConversationStore(storage session.Storage, sessionID, welcome string) *ConversationStore {
	return &ConversationStore{storage: storage, sessionID: sessionID, welcome: welcome}
}

func (s *ConversationStore) SessionID() string {
	return s.sessionID
}

// Load returns the persisted transcript. It never fails: missing, unreadable
// or malformed data yields the welcome transcript.
func (s *ConversationStore) Load(ctx context.Context) Transcript {
	raw, err := s.storage.GetItem(ctx, s.sessionID, TranscriptKey)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.ErrorLogger.Error("transcript read failed",
				zap.String("session_id", s.sessionID), zap.Error(err))
		}
		return WelcomeTranscript(s.welcome)
	}

	var stored []ChatMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logging.AppLogger.Warn("discarding corrupt transcript",
			zap.String("session_id", s.sessionID), zap.Error(err))
		return WelcomeTranscript(s.welcome)
	}

	t := make(Transcript, 0, len(stored))
	for _, m := range stored {
		if m.valid() {
			t = append(t, m)
		}
	}
	if len(t) == 0 {
		return WelcomeTranscript(s.welcome)
	}
	return t
}

// Append adds msgs to the end of the transcript and persists them in a single
// write. Either every message is stored or none is.
func (s *ConversationStore) Append(ctx context.Context, msgs ...ChatMessage) (Transcript, error) {
	for _, msg := range msgs {
		if strings.TrimSpace(msg.Content) == "" {
			return nil, ErrEmptyContent
		}
		if !msg.valid() {
			return nil, fmt.Errorf("assistant: unknown role %q", msg.Role)
		}
	}
	current := s.Load(ctx)
	t := make(Transcript, 0, len(current)+len(msgs))
	t = append(t, current...)
	t = append(t, msgs...)
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reset clears the persisted transcript and returns the welcome transcript.
func (s *ConversationStore) Reset(ctx context.Context) (Transcript, error) {
	if err := s.storage.RemoveItem(ctx, s.sessionID, TranscriptKey); err != nil {
		return nil, fmt.Errorf("reset transcript: %w", err)
	}
	return WelcomeTranscript(s.welcome), nil
}

func (s *ConversationStore) save(ctx context.Context, t Transcript) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, s.sessionID, TranscriptKey, string(data)); err != nil {
		return fmt.Errorf("persist transcript: %w", err)
	}
	return nil
}
