package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

// EinoGenerator adapts an eino chat model to domain.Generator.
type EinoGenerator struct {
	model model.ToolCallingChatModel
}

// NewEinoGenerator builds an OpenAI-compatible chat model from configuration.
// It fails with ErrGeneratorUnavailable when no API key is configured.
func NewEinoGenerator(ctx context.Context, cfg domain.GeneratorConfig) (*EinoGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, domain.E(domain.CodeConfigurationMissing, "assistant.NewEinoGenerator", "generator API key is not set", domain.ErrGeneratorUnavailable)
	}
	modelCfg := &openai.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: apiKey,
	}
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}
	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize chat model: %w", err)
	}
	return NewGenerator(chatModel), nil
}

func NewGenerator(chatModel model.ToolCallingChatModel) *EinoGenerator {
	return &EinoGenerator{model: chatModel}
}

func (g *EinoGenerator) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerateOptions) (domain.Generation, error) {
	input := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		input = append(input, &schema.Message{Role: schemaRole(msg.Role), Content: msg.Content})
	}

	callOpts := []model.Option{model.WithTemperature(float32(opts.Temperature))}
	if opts.Model != "" {
		callOpts = append(callOpts, model.WithModel(opts.Model))
	}

	resp, err := g.model.Generate(ctx, input, callOpts...)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("generate: %w", err)
	}
	if resp == nil {
		return domain.Generation{}, nil
	}
	out := domain.Generation{Text: resp.Content}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		out.TokensUsed = resp.ResponseMeta.Usage.TotalTokens
	}
	return out, nil
}

func schemaRole(role domain.Role) schema.RoleType {
	switch role {
	case domain.RoleAssistant:
		return schema.Assistant
	case domain.RoleSystem:
		return schema.System
	default:
		return schema.User
	}
}

var _ domain.Generator = (*EinoGenerator)(nil)
