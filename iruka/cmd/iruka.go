// Command-line interface for the Iruka Fabric assistant
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iruka/iruka/assistant"
	"iruka/iruka/assistant/configs"
	"iruka/iruka/config"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/sources/session"
	"iruka/iruka/sources/storage"
	"iruka/iruka/utils/color"
	"iruka/iruka/utils/logging"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "chat":
		if err := runChat(cfg, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
			os.Exit(1)
		}
	case "upload-catalog":
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		if err := uploadCatalog(cfg, args[1]); err != nil {
			fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Iruka CLI usage:")
	fmt.Println("  iruka chat                   # Chat with the assistant in this terminal")
	fmt.Println("  iruka upload-catalog <file>  # Validate and upload a catalog JSON to MinIO")
}

func runChat(cfg config.Config, in io.Reader, out io.Writer) error {
	ctx := context.Background()
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cat, _, err := storage.OpenCatalog(loadCtx, cfg)
	if err != nil {
		return err
	}
	profile, err := configs.LoadProfile(cfg.AssistantProfile)
	if err != nil {
		return err
	}
	client, err := llm.New(cfg)
	if err != nil {
		fmt.Fprintln(out, color.ColorWarning("No model configured ("+err.Error()+"), only canned replies will work."))
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

	sessionID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	store := assistant.NewConversationStore(session.NewMemoryStorage(), sessionID, profile.Welcome)
	logging.AppLogger.Info("cli chat started", zap.String("session_id", sessionID))

	printTranscript(out, cat, store.Load(ctx))
	fmt.Fprintln(out, color.ColorInfo("Type /reset to start over or 'exit' to quit."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("anda> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, color.ColorInfo("Sampai jumpa!"))
			return nil
		case "/reset":
			t, err := store.Reset(ctx)
			if err != nil {
				return err
			}
			printTranscript(out, cat, t)
			continue
		}

		history := store.Load(ctx)
		fmt.Fprintln(out, color.ColorInfo("..."))
		reply := resolver.Resolve(ctx, line, history)
		if _, err := store.Append(ctx, assistant.UserMessage(line), reply.Message()); err != nil {
			logging.ErrorLogger.Error("transcript save failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		printMessage(out, cat, reply.Message())
	}
	return scanner.Err()
}

func printTranscript(out io.Writer, cat *catalog.Catalog, t assistant.Transcript) {
	for _, m := range t {
		if m.Role == assistant.RoleUser {
			fmt.Fprintln(out, color.ColorPrompt("anda> ")+m.Content)
			continue
		}
		printMessage(out, cat, m)
	}
}

func printMessage(out io.Writer, cat *catalog.Catalog, m assistant.ChatMessage) {
	fmt.Fprintln(out, color.ColorAssistant("iruka> ")+m.Content)
	for _, card := range assistant.Cards(cat, m.FabricIDs) {
		fmt.Fprintln(out, color.ColorCard(card.ID, card.Name, card.Price))
	}
}

func uploadCatalog(cfg config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	m, err := storage.NewMinIOClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("minio connection error: %w", err)
	}
	n, err := m.UploadCatalog(ctx, cfg.CatalogObject, data)
	if err != nil {
		return err
	}
	fmt.Println(color.ColorInfo(fmt.Sprintf("Uploaded %d fabrics to %s/%s", n, cfg.MinIOBucket, cfg.CatalogObject)))
	return nil
}
