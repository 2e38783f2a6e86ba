package routes

import (
	"context"
	"encoding/json"
	"iruka/iruka/assistant"
	"iruka/iruka/assistant/configs"
	"iruka/iruka/config"
	"iruka/iruka/controllers"
	"iruka/iruka/middlewares"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/sources/session"
	"iruka/iruka/utils/types"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
)

type completerFunc func(ctx context.Context, req llm.ChatRequest) (string, error)

func (f completerFunc) Run(ctx context.Context, req llm.ChatRequest) (string, error) {
	return f(ctx, req)
}

var testConfig = config.Config{JWTSecret: "test-secret", OrderPhone: "6281257571238", LLMTimeout: 5 * time.Second}

func newRouter(t *testing.T, completer assistant.Completer) http.Handler {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	resolver := assistant.NewResolver(completer, c, configs.DefaultProfile(), assistant.DefaultOptions())

	r := chi.NewRouter()
	r.Mount("/chat", ChatRoutes(controllers.NewChatController(session.NewMemoryStorage(), resolver, c), testConfig))
	r.Mount("/catalog", CatalogRoutes(controllers.NewCatalogController(c, testConfig.OrderPhone)))
	r.Mount("/health", HealthRoutes(controllers.NewHealthController(c)))
	return r
}

func silk() completerFunc {
	return func(context.Context, llm.ChatRequest) (string, error) {
		return `{"text":"Kami punya sutra premium.","ids":[2]}`, nil
	}
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChatRoutes_SendAndHistory(t *testing.T) {
	h := newRouter(t, silk())

	rr := do(t, h, "POST", "/chat/", `{"content":"Saya cari kain sutra"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	token := rr.Header().Get(middlewares.SessionHeader)
	if token == "" {
		t.Fatal("first request should receive a session token")
	}
	var resp types.ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Cards) != 1 || resp.Cards[0].ID != 2 {
		t.Errorf("expected one card for item 2, got %+v", resp.Cards)
	}

	rr = do(t, h, "GET", "/chat/history", "", token)
	var hist types.HistoryResponse
	json.Unmarshal(rr.Body.Bytes(), &hist)
	if len(hist.Transcript) != 3 {
		t.Errorf("expected 3 transcript entries for the same session, got %d", len(hist.Transcript))
	}

	rr = do(t, h, "GET", "/chat/history", "", "")
	json.Unmarshal(rr.Body.Bytes(), &hist)
	if len(hist.Transcript) != 1 {
		t.Errorf("a new session should only see the welcome message, got %d", len(hist.Transcript))
	}

	rr = do(t, h, "DELETE", "/chat/history", "", token)
	json.Unmarshal(rr.Body.Bytes(), &hist)
	if rr.Code != http.StatusOK || len(hist.Transcript) != 1 {
		t.Errorf("reset should return the welcome transcript, got %d %+v", rr.Code, hist)
	}
}

func TestChatRoutes_BadInput(t *testing.T) {
	h := newRouter(t, silk())
	for _, body := range []string{`{"content":"   "}`, `not json`, ``} {
		if rr := do(t, h, "POST", "/chat/", body, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newRouter(t, nil)

	rr := do(t, h, "GET", "/catalog/?q=sutra", "", "")
	var list types.CatalogListResponse
	json.Unmarshal(rr.Body.Bytes(), &list)
	if list.Total == 0 || list.Items[0].Category != "Sutra" {
		t.Errorf("unexpected search result %+v", list)
	}

	rr = do(t, h, "GET", "/catalog/2", "", "")
	var item types.CatalogItemResponse
	json.Unmarshal(rr.Body.Bytes(), &item)
	if rr.Code != http.StatusOK || item.ID != 2 || !strings.Contains(item.OrderLink, "wa.me/6281257571238") {
		t.Errorf("unexpected item response %d %+v", rr.Code, item)
	}

	for _, path := range []string{"/catalog/999", "/catalog/abc"} {
		if rr := do(t, h, "GET", path, "", ""); rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}

	rr = do(t, h, "GET", "/catalog/categories", "", "")
	var cats []string
	json.Unmarshal(rr.Body.Bytes(), &cats)
	if len(cats) < 2 || cats[0] != catalog.AllCategories {
		t.Errorf("unexpected categories %v", cats)
	}

	rr = do(t, h, "GET", "/catalog/featured", "", "")
	json.Unmarshal(rr.Body.Bytes(), &list)
	if list.Total != controllers.FeaturedCount {
		t.Errorf("expected %d featured items, got %d", controllers.FeaturedCount, list.Total)
	}
}

func TestHealthRoute(t *testing.T) {
	if rr := do(t, newRouter(t, nil), "GET", "/health/", "", ""); rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestChatWebsocket(t *testing.T) {
	srv := httptest.NewServer(newRouter(t, silk()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/chat/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	var frame types.WSOutbound
	if err := wsjson.Read(ctx, conn, &frame); err != nil || frame.Type != types.FrameHistory || len(frame.Transcript) != 1 {
		t.Fatalf("expected initial history frame, got %+v (%v)", frame, err)
	}

	wsjson.Write(ctx, conn, types.WSInbound{Type: types.FrameMessage, Content: "Saya cari kain sutra"})
	frame = types.WSOutbound{}
	if err := wsjson.Read(ctx, conn, &frame); err != nil || frame.Type != types.FrameLoading {
		t.Fatalf("expected loading frame, got %+v (%v)", frame, err)
	}
	frame = types.WSOutbound{}
	if err := wsjson.Read(ctx, conn, &frame); err != nil || frame.Type != types.FrameReply {
		t.Fatalf("expected reply frame, got %+v (%v)", frame, err)
	}
	if frame.Message == nil || frame.Message.Content != "Kami punya sutra premium." || len(frame.Cards) != 1 {
		t.Errorf("unexpected reply %+v", frame)
	}
	// loading frames are not part of the transcript
	if len(frame.Transcript) != 3 {
		t.Errorf("expected 3 transcript entries, got %d", len(frame.Transcript))
	}

	wsjson.Write(ctx, conn, types.WSInbound{Type: "bogus"})
	frame = types.WSOutbound{}
	if err := wsjson.Read(ctx, conn, &frame); err != nil || frame.Type != types.FrameError {
		t.Errorf("expected error frame, got %+v (%v)", frame, err)
	}

	wsjson.Write(ctx, conn, types.WSInbound{Type: types.FrameReset})
	frame = types.WSOutbound{}
	if err := wsjson.Read(ctx, conn, &frame); err != nil || frame.Type != types.FrameHistory || len(frame.Transcript) != 1 {
		t.Errorf("expected welcome history after reset, got %+v (%v)", frame, err)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
