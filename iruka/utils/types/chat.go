package types

import "iruka/iruka/assistant"

type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse is returned for every accepted message: the new assistant turn,
// its product cards and the full rendered transcript.
type ChatResponse struct {
	SessionID  string                      `json:"session_id"`
	Message    assistant.ChatMessage       `json:"message"`
	Cards      []assistant.Card            `json:"cards"`
	Transcript []assistant.RenderedMessage `json:"transcript"`
}

type HistoryResponse struct {
	SessionID  string                      `json:"session_id"`
	Transcript []assistant.RenderedMessage `json:"transcript"`
}

// Websocket frame types.
const (
	FrameMessage = "message"
	FrameReset   = "reset"
	FrameHistory = "history"
	FrameLoading = "loading"
	FrameReply   = "reply"
	FrameError   = "error"
)

// WSInbound is a frame sent by the chat widget.
type WSInbound struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// WSOutbound is a frame sent to the chat widget. Loading frames are never
// stored in the transcript.
type WSOutbound struct {
	Type       string                      `json:"type"`
	Message    *assistant.ChatMessage      `json:"message,omitempty"`
	Cards      []assistant.Card            `json:"cards,omitempty"`
	Transcript []assistant.RenderedMessage `json:"transcript,omitempty"`
	Error      string                      `json:"error,omitempty"`
}
