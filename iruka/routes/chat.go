package routes

import (
	"encoding/json"
	"iruka/iruka/config"
	"iruka/iruka/controllers"
	"iruka/iruka/middlewares"
	"iruka/iruka/utils/logging"
	"iruka/iruka/utils/types"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxMessageBytes bounds request bodies and websocket frames.
const maxMessageBytes = 16 << 10

// requestTimeout leaves room for one completion call on top of storage work.
func requestTimeout(cfg config.Config) time.Duration {
	if cfg.LLMTimeout <= 0 {
		return 60 * time.Second
	}
	return cfg.LLMTimeout + 10*time.Second
}

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.SessionMiddleware(cfg.JWTSecret))

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(requestTimeout(cfg)))
		// POST /chat/ : send message
		gr.Post("/", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
			var req types.ChatRequest
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
				return nil, errBadRequest
			}
			return ctrl.Send(r.Context(), middlewares.SessionID(r.Context()), req)
		}))
		// GET /chat/history : rendered transcript
		gr.Get("/history", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
			return ctrl.History(r.Context(), middlewares.SessionID(r.Context())), nil
		}))
		// DELETE /chat/history : back to the welcome message
		gr.Delete("/history", handleJSON(func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
			return ctrl.Reset(r.Context(), middlewares.SessionID(r.Context()))
		}))
	})

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(maxMessageBytes)

		ctx := r.Context()
		sessionID := middlewares.SessionID(ctx)
		hist := ctrl.History(ctx, sessionID)
		if err := wsjson.Write(ctx, conn, types.WSOutbound{Type: types.FrameHistory, Transcript: hist.Transcript}); err != nil {
			return
		}

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "unsupported data")
				return
			}
			var in types.WSInbound
			if err := json.Unmarshal(data, &in); err != nil {
				if wsjson.Write(ctx, conn, types.WSOutbound{Type: types.FrameError, Error: "invalid json"}) != nil {
					return
				}
				continue
			}

			out := handleFrame(r, conn, ctrl, sessionID, in)
			if err := wsjson.Write(ctx, conn, out); err != nil {
				logging.AppLogger.Info("websocket closed", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		}
	})
	return r
}

func handleFrame(r *http.Request, conn *websocket.Conn, ctrl *controllers.ChatController, sessionID string, in types.WSInbound) types.WSOutbound {
	ctx := r.Context()
	switch in.Type {
	case types.FrameMessage:
		if err := wsjson.Write(ctx, conn, types.WSOutbound{Type: types.FrameLoading}); err != nil {
			return errorFrame(err)
		}
		resp, err := ctrl.Send(ctx, sessionID, types.ChatRequest{Content: in.Content})
		if err != nil {
			return errorFrame(err)
		}
		return types.WSOutbound{Type: types.FrameReply, Message: &resp.Message, Cards: resp.Cards, Transcript: resp.Transcript}
	case types.FrameReset:
		resp, err := ctrl.Reset(ctx, sessionID)
		if err != nil {
			return errorFrame(err)
		}
		return types.WSOutbound{Type: types.FrameHistory, Transcript: resp.Transcript}
	case types.FrameHistory:
		return types.WSOutbound{Type: types.FrameHistory, Transcript: ctrl.History(ctx, sessionID).Transcript}
	default:
		return errorFrame(errUnknownFrame)
	}
}

func errorFrame(err error) types.WSOutbound {
	msg := err.Error()
	if statusFor(err) == http.StatusInternalServerError {
		logging.ErrorLogger.Error("websocket request failed", zap.Error(err))
		msg = "internal error"
	}
	return types.WSOutbound{Type: types.FrameError, Error: msg}
}
