// Package assistant wraps the generator with context resolution and an
// offline fallback.
package assistant

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

const contextPrefix = "Informations complémentaires :\n"

// ToolSwitch toggles and lists tools.
type ToolSwitch interface {
	SetToolEnabled(name domain.ToolName, enabled bool) error
	EnabledTools() []domain.ToolName
}

type Options struct {
	Resolver    domain.ContextResolver
	Generator   domain.Generator
	Tools       ToolSwitch
	Model       string
	Temperature float64
	Logger      *zap.Logger
}

// Settings is the caller-visible assistant configuration.
type Settings struct {
	Model       string            `json:"model" yaml:"model"`
	Temperature float64           `json:"temperature" yaml:"temperature"`
	Tools       []domain.ToolName `json:"tools" yaml:"tools"`
}

type Assistant struct {
	resolver  domain.ContextResolver
	generator domain.Generator
	tools     ToolSwitch
	logger    *zap.Logger

	mu          sync.RWMutex
	model       string
	temperature float64
}

func New(opts Options) (*Assistant, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	model := opts.Model
	if model == "" {
		model = domain.DefaultGeneratorModel
	}
	a := &Assistant{
		resolver:  opts.Resolver,
		generator: opts.Generator,
		tools:     opts.Tools,
		logger:    logger.Named("assistant"),
		model:     model,
	}
	if err := a.SetTemperature(opts.Temperature); err != nil {
		return nil, err
	}
	return a, nil
}

// Chat answers the conversation. Generator failures fall back to the offline
// reply and are reported in ChatReply.Error, never as a Go error.
func (a *Assistant) Chat(ctx context.Context, messages []domain.Message) domain.ChatReply {
	ctx = telemetry.WithOrigin(ctx, telemetry.OriginChat)
	ctx, _ = telemetry.EnsureRequestMeta(ctx)
	logger := telemetry.LoggerWithRequest(ctx, a.logger)

	settings := a.Config()
	extra := a.resolve(ctx, messages)

	if a.generator == nil {
		return a.offline(messages, extra, settings.Model, "")
	}

	request := withContext(messages, extra)
	generation, err := a.generator.Generate(ctx, request, domain.GenerateOptions{
		Model:       settings.Model,
		Temperature: settings.Temperature,
	})
	if err != nil {
		logger.Warn("generator failed", telemetry.EventField(telemetry.EventGeneratorFailed), zap.Error(err))
		return a.offline(messages, extra, "", err.Error())
	}

	text := strings.TrimSpace(generation.Text)
	if text == "" {
		if extra != "" {
			text = StripLinks(extra)
		} else {
			text = replyRephrase
		}
	}
	tokens := generation.TokensUsed
	if tokens <= 0 {
		tokens = len(strings.Fields(text))
	}
	return domain.ChatReply{Content: text, TokensUsed: tokens, Model: settings.Model}
}

func (a *Assistant) resolve(ctx context.Context, messages []domain.Message) string {
	if a.resolver == nil {
		return ""
	}
	query := LastUserMessage(messages)
	if query == "" {
		return ""
	}
	extra, ok := a.resolver.ResolveContext(ctx, query)
	if !ok {
		return ""
	}
	return extra
}

func (a *Assistant) offline(messages []domain.Message, extra, model, errText string) domain.ChatReply {
	reply := OfflineReply(messages)
	if extra != "" {
		reply += "\n\n" + StripLinks(extra)
	}
	return domain.ChatReply{
		Content:    reply,
		TokensUsed: len(strings.Fields(reply)),
		Model:      model,
		Error:      errText,
		Offline:    true,
	}
}

// withContext inserts the context turn just before the last message.
func withContext(messages []domain.Message, extra string) []domain.Message {
	out := make([]domain.Message, 0, len(messages)+1)
	out = append(out, messages...)
	if extra == "" {
		return out
	}
	turn := domain.Message{Role: domain.RoleUser, Content: contextPrefix + extra}
	if len(out) == 0 {
		return append(out, turn)
	}
	last := out[len(out)-1]
	out = append(out[:len(out)-1], turn, last)
	return out
}

func (a *Assistant) SetModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	a.mu.Lock()
	a.model = model
	a.mu.Unlock()
}

// SetTemperature accepts values in [0, 1].
func (a *Assistant) SetTemperature(temperature float64) error {
	if temperature < 0 || temperature > 1 {
		return domain.E(domain.CodeInvalidArgument, "assistant.SetTemperature", "", domain.ErrInvalidTemperature)
	}
	a.mu.Lock()
	a.temperature = temperature
	a.mu.Unlock()
	return nil
}

// ToggleTool enables or disables a tool by name; unknown names are rejected.
func (a *Assistant) ToggleTool(name string, enabled bool) error {
	tool, ok := domain.ParseToolName(name)
	if !ok {
		return domain.E(domain.CodeNotFound, "assistant.ToggleTool", name, domain.ErrToolNotFound)
	}
	if a.tools == nil {
		return nil
	}
	return a.tools.SetToolEnabled(tool, enabled)
}

func (a *Assistant) Config() Settings {
	a.mu.RLock()
	settings := Settings{Model: a.model, Temperature: a.temperature}
	a.mu.RUnlock()
	if a.tools != nil {
		settings.Tools = a.tools.EnabledTools()
	}
	return settings
}
