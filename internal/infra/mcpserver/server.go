// Package mcpserver exposes the context engine as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

const (
	ToolResolveContext = "quantum.resolve_context"
	ToolAssess         = "quantum.assess"
	ToolLeaderboard    = "quantum.leaderboard"

	serverName = "quantum-mind"
	noContext  = "Aucun contexte externe pertinent pour cette requête."
)

// Engine is the subset of the orchestrator served over MCP.
type Engine interface {
	ResolveContext(ctx context.Context, query string) (string, bool)
	Assess(query string) []domain.Assessment
	Curated() *curated.Table
}

type Options struct {
	Engine  Engine
	Version string
	Logger  *zap.Logger
}

type Server struct {
	engine Engine
	logger *zap.Logger
	server *mcp.Server
}

func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("mcp server: engine is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine: opts.Engine,
		logger: logger.Named("mcp"),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, &mcp.ServerOptions{HasTools: true}),
	}
	if err := s.register(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) register() error {
	queryInput, err := inputSchema[queryArgs]()
	if err != nil {
		return err
	}
	requireQuery(queryInput)
	leaderboardInput, err := inputSchema[leaderboardArgs]()
	if err != nil {
		return err
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolResolveContext,
		Title:       "Resolve external context",
		Description: "Runs every relevant tool for the query and returns the merged context block.",
		InputSchema: queryInput,
	}, s.resolveContext)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAssess,
		Title:       "Assess tool relevance",
		Description: "Scores the query against each tool without running them or applying cooldowns.",
		InputSchema: queryInput,
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.assess)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolLeaderboard,
		Title:       "MT-Bench leaderboard",
		Description: "Returns the curated MT-Bench table, optionally refreshing it first.",
		InputSchema: leaderboardInput,
	}, s.leaderboard)
	return nil
}

// inputSchema derives and resolves the argument schema for T.
func inputSchema[T any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("mcp server: infer schema: %w", err)
	}
	if _, err := schema.Resolve(nil); err != nil {
		return nil, fmt.Errorf("mcp server: resolve schema: %w", err)
	}
	return schema, nil
}

func requireQuery(schema *jsonschema.Schema) {
	if prop, ok := schema.Properties["query"]; ok {
		minLength := 1
		prop.MinLength = &minLength
	}
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// RunStdio serves MCP over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("mcp server starting (stdio transport)")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler serves MCP over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) requestContext(ctx context.Context, tool string) (context.Context, *zap.Logger) {
	ctx, _ = telemetry.EnsureRequestMeta(telemetry.WithOrigin(ctx, telemetry.OriginMCP))
	return ctx, telemetry.LoggerWithRequest(ctx, s.logger).With(zap.String("mcp_tool", tool))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func trimQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.E(domain.CodeInvalidArgument, "mcp", "query is required", nil)
	}
	return query, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
