package main

import (
	"context"
	"iruka/iruka/assistant"
	"iruka/iruka/assistant/configs"
	"iruka/iruka/config"
	"iruka/iruka/controllers"
	"iruka/iruka/middlewares"
	"iruka/iruka/routes"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/psql"
	"iruka/iruka/sources/psql/dao"
	"iruka/iruka/sources/session"
	"iruka/iruka/sources/storage"
	"iruka/iruka/utils/logging"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// sessionIdle matches the session token lifetime.
const sessionIdle = middlewares.SessionTTL

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	ctx, cancel := context.WithTimeout(runCtx, 10*time.Second)
	defer cancel()

	cat, watcher, err := storage.OpenCatalog(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("catalog load error", zap.Error(err))
		os.Exit(1)
	}
	if watcher != nil {
		if err := watcher.Watch(runCtx); err != nil {
			logging.ErrorLogger.Error("catalog watch error", zap.Error(err))
		}
		defer watcher.Stop()
	}

	var sessions session.Storage
	switch cfg.SessionStore {
	case "postgres":
		db, err := psql.NewDatabase(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		sessions = dao.NewSessionItemDAO(db.DB)
	default:
		sessions = session.NewMemoryStorage()
	}
	if p, ok := sessions.(session.Pruner); ok {
		go pruneSessions(runCtx, p)
	}

	client, err := llm.New(cfg)
	if err != nil {
		// the assistant still answers canned greetings and falls back politely
		logging.ErrorLogger.Error("llm client error", zap.Error(err))
	}
	profile, err := configs.LoadProfile(cfg.AssistantProfile)
	if err != nil {
		logging.ErrorLogger.Error("assistant profile error", zap.Error(err))
		os.Exit(1)
	}
	var completer assistant.Completer
	if client != nil {
		completer = client
	}
	resolver := assistant.NewResolver(completer, cat, profile, assistant.Options{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	})

	chatCtrl := controllers.NewChatController(sessions, resolver, cat)
	catalogCtrl := controllers.NewCatalogController(cat, cfg.OrderPhone)
	healthCtrl := controllers.NewHealthController(cat)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/catalog", routes.CatalogRoutes(catalogCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr),
			zap.String("llm_provider", cfg.LLMProvider), zap.String("session_store", cfg.SessionStore))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			stop()
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-runCtx.Done():
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

func pruneSessions(ctx context.Context, p session.Pruner) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Prune(ctx, sessionIdle)
			if err != nil {
				logging.ErrorLogger.Error("session prune failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logging.AppLogger.Info("pruned idle sessions", zap.Int64("count", n))
			}
		}
	}
}
