package controllers

import (
	"context"
	"errors"
	"iruka/iruka/assistant"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/sources/session"
	"iruka/iruka/utils/logging"
	"iruka/iruka/utils/types"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSessionBusy  = errors.New("a reply for this session is still pending")
)

type ChatController struct {
	storage  session.Storage
	resolver *assistant.Resolver
	catalog  *catalog.Catalog
	inflight sync.Map
}

func NewChatController(storage session.Storage, resolver *assistant.Resolver, c *catalog.Catalog) *ChatController {
	return &ChatController{storage: storage, resolver: resolver, catalog: c}
}

func (c *ChatController) store(sessionID string) *assistant.ConversationStore {
	return assistant.NewConversationStore(c.storage, sessionID, c.resolver.Profile().Welcome)
}

// Send resolves the assistant reply and stores it together with the user's
// message. Only one Send per session may be outstanding. A failed save is
// logged and the reply is still returned.
func (c *ChatController) Send(ctx context.Context, sessionID string, req types.ChatRequest) (*types.ChatResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if _, busy := c.inflight.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, ErrSessionBusy
	}
	defer c.inflight.Delete(sessionID)

	store := c.store(sessionID)
	history := store.Load(ctx)
	user := assistant.UserMessage(content)

	reply := c.resolver.Resolve(ctx, content, history)
	msg := reply.Message()
	transcript, err := store.Append(ctx, user, msg)
	if err != nil {
		logging.ErrorLogger.Error("transcript save failed",
			zap.String("session_id", sessionID), zap.Error(err))
		transcript = make(assistant.Transcript, 0, len(history)+2)
		transcript = append(transcript, history...)
		transcript = append(transcript, user, msg)
	}
	logging.AppLogger.Info("chat reply",
		zap.String("session_id", sessionID), zap.Ints("fabric_ids", reply.FabricIDs))

	return &types.ChatResponse{
		SessionID:  sessionID,
		Message:    msg,
		Cards:      assistant.Cards(c.catalog, reply.FabricIDs),
		Transcript: assistant.Render(c.catalog, transcript),
	}, nil
}

func (c *ChatController) History(ctx context.Context, sessionID string) *types.HistoryResponse {
	return &types.HistoryResponse{
		SessionID:  sessionID,
		Transcript: assistant.Render(c.catalog, c.store(sessionID).Load(ctx)),
	}
}

func (c *ChatController) Reset(ctx context.Context, sessionID string) (*types.HistoryResponse, error) {
	if _, busy := c.inflight.Load(sessionID); busy {
		return nil, ErrSessionBusy
	}
	t, err := c.store(sessionID).Reset(ctx)
	if err != nil {
		return nil, err
	}
	return &types.HistoryResponse{SessionID: sessionID, Transcript: assistant.Render(c.catalog, t)}, nil
}
