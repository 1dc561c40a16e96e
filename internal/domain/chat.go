package domain

import "context"

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	Model       string
	Temperature float64
}

// Generation is the text produced by the generator.
type Generation struct {
	Text       string
	TokensUsed int
}

// Generator is the downstream text-completion collaborator.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts GenerateOptions) (Generation, error)
}

// ChatReply is what the assistant returns to its caller.
type ChatReply struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed"`
	Model      string `json:"model,omitempty"`
	Error      string `json:"error,omitempty"`
	Offline    bool   `json:"offline,omitempty"`
}

// ContextResolver produces the context block for a query.
type ContextResolver interface {
	ResolveContext(ctx context.Context, query string) (string, bool)
}
