package assistant

import (
	"context"
	"errors"
	"fmt"
	"iruka/iruka/assistant/configs"
	"iruka/iruka/services/llm"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/utils/jsonutils"
	"iruka/iruka/utils/logging"
	"strings"

	"go.uber.org/zap"
)

// Completer is the hosted language model. llm.Client satisfies it.
type Completer interface {
	Run(ctx context.Context, req llm.ChatRequest) (string, error)
}

type Options struct {
	Model         string
	Temperature   float64
	MaxTokens     int
	ContextWindow int
}

func DefaultOptions() Options {
	return Options{
		Model:         "llama-3.1-8b-instant",
		Temperature:   0.6,
		MaxTokens:     400,
		ContextWindow: 3,
	}
}

// Resolver turns one user utterance into one assistant reply. It holds no
// per-session state and is safe for concurrent use.
type Resolver struct {
	completer Completer
	catalog   *catalog.Catalog
	profile   *configs.Profile
	opts      Options
}

func NewResolver(completer Completer, c *catalog.Catalog, profile *configs.Profile, opts Options) *Resolver {
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = def.ContextWindow
	}
	if profile == nil {
		profile = configs.DefaultProfile()
	}
	return &Resolver{completer: completer, catalog: c, profile: profile, opts: opts}
}

func (r *Resolver) Profile() *configs.Profile {
	return r.profile
}

// Canned looks input up in the exact-match greeting table.
func (r *Resolver) Canned(input string) (string, bool) {
	text, ok := r.profile.Canned[configs.Normalize(input)]
	return text, ok
}

// SystemPrompt states the persona, the reply format, the catalog projection
// and the tone rules. It is rebuilt per call so catalog reloads are picked up.
func (r *Resolver) SystemPrompt() string {
	var projection []catalog.ProjectedItem
	if r.catalog != nil {
		projection = r.catalog.Projection()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s.\n", r.profile.Persona)
	b.WriteString(`Format JSON: {"text": "jawaban", "ids": [id_kain_yang_relevan]}.` + "\n")
	fmt.Fprintf(&b, "Data: %s.\n", jsonutils.Compact(projection))
	fmt.Fprintf(&b, "Aturan: Gunakan %s.", r.profile.Language)
	if rules := strings.TrimSpace(r.profile.Rules); rules != "" {
		b.WriteString(" ")
		b.WriteString(rules)
	}
	return b.String()
}

// BuildRequest assembles the completion request: system prompt, the most
// recent history turns, then the new user turn.
func (r *Resolver) BuildRequest(input string, history Transcript) llm.ChatRequest {
	recent := history.Last(r.opts.ContextWindow)
	messages := make([]llm.Message, 0, len(recent)+2)
	messages = append(messages, llm.Message{Role: string(RoleSystem), Content: r.SystemPrompt()})
	for _, m := range recent {
		role := RoleAssistant
		if m.Role == RoleUser {
			role = RoleUser
		}
		messages = append(messages, llm.Message{Role: string(role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: string(RoleUser), Content: strings.TrimSpace(input)})

	return llm.ChatRequest{
		Model:          r.opts.Model,
		Messages:       messages,
		Temperature:    llm.Float(r.opts.Temperature),
		MaxTokens:      r.opts.MaxTokens,
		ResponseFormat: llm.JSONObject,
	}
}

// Resolve always returns a displayable reply. history is the transcript as it
// stood before input was sent.
func (r *Resolver) Resolve(ctx context.Context, input string, history Transcript) Reply {
	if text, ok := r.Canned(input); ok {
		return textReply(text)
	}
	defer logging.LogDuration(ctx, "Resolver.Resolve")()

	if r.completer == nil {
		logging.ErrorLogger.Error("no completion client configured")
		return textReply(r.profile.Failure)
	}

	raw, err := r.completer.Run(ctx, r.BuildRequest(input, history))
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			logging.AppLogger.Warn("completion rate limited", zap.Error(err))
			return textReply(r.profile.RateLimited)
		}
		logging.ErrorLogger.Error("completion failed", zap.Error(err))
		return textReply(r.profile.Failure)
	}

	reply, err := ParseReply(raw, r.profile.FollowUp)
	if err != nil {
		logging.ErrorLogger.Error("unparseable completion",
			zap.Error(err), zap.String("raw", truncate(raw, 500)))
		return textReply(r.profile.Failure)
	}
	return reply
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
