// Package assistant answers shoppers' questions about the fabric catalog. It
// keeps each session's transcript and turns one user utterance into one
// assistant reply, either from a canned table or via a hosted language model.
package assistant

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one turn of the transcript. FabricIDs are the catalog items
// the assistant recommended with this turn.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	FabricIDs []int  `json:"fabricIds,omitempty"`
}

// Transcript is the chronological, append-only history of one session.
type Transcript []ChatMessage

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// WelcomeTranscript is what a new or reset session starts with.
func WelcomeTranscript(welcome string) Transcript {
	return Transcript{{Role: RoleAssistant, Content: welcome}}
}

func (m ChatMessage) valid() bool {
	switch m.Role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return false
	}
	return strings.TrimSpace(m.Content) != ""
}

// Last returns at most the n most recent messages.
func (t Transcript) Last(n int) Transcript {
	if n <= 0 {
		return Transcript{}
	}
	if len(t) <= n {
		return t
	}
	return t[len(t)-n:]
}
