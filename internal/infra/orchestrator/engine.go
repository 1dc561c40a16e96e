// Package orchestrator turns a user query into the aggregated context block
// handed to the generator.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/curated"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/selection"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

const curatedLabel = "📊 MT-Bench (référence LMSYS)"

// Tools is the ordered descriptor table the engine iterates.
type Tools interface {
	selection.Lookup
	Descriptors() []domain.ToolDescriptor
}

// noTools stands in when no table is configured; every query resolves to nothing.
type noTools struct{}

func (noTools) Lookup(domain.ToolName) (domain.ToolDescriptor, bool) { return domain.ToolDescriptor{}, false }
func (noTools) Descriptors() []domain.ToolDescriptor { return nil }

// Options configures an Engine.
type Options struct {
	Tools       Tools
	Tracker     *selection.Tracker
	Curated     *curated.Table
	Credentials domain.Credentials
	Disabled    []domain.ToolName
	Logger      *zap.Logger
	Metrics     domain.Metrics
	Now         func() time.Time
}

// Engine runs the eligible tools for a query, one after the other in registry order.
type Engine struct {
	tools       Tools
	tracker     *selection.Tracker
	curated     *curated.Table
	credentials domain.Credentials
	logger      *zap.Logger
	metrics     domain.Metrics
	now         func() time.Time

	mu       sync.RWMutex
	disabled map[domain.ToolName]struct{}
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tools := opts.Tools
	if tools == nil {
		tools = noTools{}
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = selection.NewTracker(tools, selection.TrackerOptions{Logger: logger, Metrics: metrics, Now: now})
	}
	disabled := make(map[domain.ToolName]struct{}, len(opts.Disabled))
	for _, name := range opts.Disabled {
		disabled[name] = struct{}{}
	}
	return &Engine{
		tools:       tools,
		tracker:     tracker,
		curated:     opts.Curated,
		credentials: opts.Credentials,
		logger:      logger.Named("orchestrator"),
		metrics:     metrics,
		now:         now,
		disabled:    disabled,
	}
}

// ResolveContext returns the context block for query and whether anything was produced.
// Tool failures are logged and treated as missing data.
func (e *Engine) ResolveContext(ctx context.Context, query string) (string, bool) {
	ctx, _ = telemetry.EnsureRequestMeta(ctx)
	logger := telemetry.LoggerWithRequest(ctx, e.logger)
	start := e.now()

	normalized, tokens := normalize.Query(query)
	logger.Debug("resolving context", telemetry.EventField(telemetry.EventResolveStart), zap.Int("chars", len(query)))

	var blocks []string
	if e.curated != nil && curated.References(query) {
		if summary := e.curated.Summary(query); summary != "" {
			blocks = append(blocks, curatedLabel+"\n"+summary)
		}
	}

	var notes []string
	seenCooldown := make(map[string]struct{})
	addCooldownNote := func(note string) {
		if note == "" {
			return
		}
		if _, ok := seenCooldown[note]; ok {
			return
		}
		seenCooldown[note] = struct{}{}
		notes = append(notes, note)
	}

	for _, desc := range e.tools.Descriptors() {
		if ctx.Err() != nil {
			break
		}
		if skip := e.skipReason(desc); skip != "" {
			logger.Debug("tool skipped", telemetry.EventField(telemetry.EventToolSkipped), telemetry.ToolField(desc.Name), zap.String("why", skip))
			continue
		}

		assessment := e.tracker.Assess(desc.Name, normalized, tokens, true)
		if !assessment.ShouldRun {
			if assessment.Reason == domain.ReasonCooldown {
				addCooldownNote(desc.CooldownMessage)
			}
			continue
		}

		text := e.run(ctx, logger, desc, query)
		if text == "" {
			if desc.NoDataMessage != "" {
				notes = append(notes, desc.NoDataMessage)
			}
			continue
		}
		blocks = append(blocks, desc.Label+"\n"+text)
		e.tracker.RegisterUsage(desc.Name)
	}

	out := strings.Join(blocks, "\n\n")
	if len(notes) > 0 {
		noteBlock := strings.Join(notes, "\n")
		if out == "" {
			out = noteBlock
		} else {
			out += "\n\n" + noteBlock
		}
	}

	logger.Debug("context resolved",
		telemetry.EventField(telemetry.EventResolveDone),
		zap.Int("blocks", len(blocks)),
		zap.Int("notes", len(notes)),
		telemetry.DurationField(e.now().Sub(start)),
	)
	return out, out != ""
}

func (e *Engine) skipReason(desc domain.ToolDescriptor) string {
	if !e.ToolEnabled(desc.Name) {
		return "disabled"
	}
	if !e.credentials.Has(desc.RequiresAPIKey) {
		return "missing credential"
	}
	if desc.Available != nil && !desc.Available() {
		return "unavailable"
	}
	if desc.Handler == nil {
		return "no handler"
	}
	return ""
}

// run executes the handler then the formatter; "" means no usable data.
func (e *Engine) run(ctx context.Context, logger *zap.Logger, desc domain.ToolDescriptor, query string) string {
	start := e.now()
	status := domain.ToolRunEmpty
	defer func() {
		e.metrics.ObserveToolRun(domain.ToolRunMetric{Tool: desc.Name, Status: status, Duration: e.now().Sub(start)})
	}()

	raw, err := e.invoke(ctx, desc, query)
	if err != nil {
		status = domain.ToolRunFailed
		logger.Warn("tool failed",
			telemetry.EventField(telemetry.EventToolFailure),
			telemetry.ToolField(desc.Name),
			zap.Error(err),
		)
		return ""
	}
	if raw == nil || desc.Formatter == nil {
		logger.Debug("tool returned no data", telemetry.EventField(telemetry.EventToolEmpty), telemetry.ToolField(desc.Name))
		return ""
	}
	text := strings.TrimSpace(desc.Formatter(raw))
	if text == "" {
		return ""
	}
	status = domain.ToolRunProduced
	logger.Debug("tool produced context",
		telemetry.EventField(telemetry.EventToolProduced),
		telemetry.ToolField(desc.Name),
		telemetry.DurationField(e.now().Sub(start)),
	)
	return text
}

// invoke shields the request from a panicking handler.
func (e *Engine) invoke(ctx context.Context, desc domain.ToolDescriptor, query string) (raw any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.E(domain.CodeInternal, "orchestrator.invoke", fmt.Sprintf("handler panic: %v", r), nil)
		}
	}()
	return desc.Handler(ctx, query)
}

// Assess scores query against every tool without the cooldown and anti-repeat gates.
func (e *Engine) Assess(query string) []domain.Assessment {
	normalized, tokens := normalize.Query(query)
	descriptors := e.tools.Descriptors()
	out := make([]domain.Assessment, 0, len(descriptors))
	for _, desc := range descriptors {
		out = append(out, e.tracker.Assess(desc.Name, normalized, tokens, false))
	}
	return out
}

// SetToolEnabled toggles a tool at runtime.
func (e *Engine) SetToolEnabled(name domain.ToolName, enabled bool) error {
	if _, ok := e.tools.Lookup(name); !ok {
		return domain.Wrap(domain.CodeNotFound, "orchestrator.SetToolEnabled", fmt.Errorf("%w: %s", domain.ErrToolNotFound, name))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled {
		delete(e.disabled, name)
	} else {
		e.disabled[name] = struct{}{}
	}
	e.logger.Info("tool toggled", telemetry.ToolField(name), zap.Bool("enabled", enabled))
	return nil
}

// SetDisabled replaces the disabled set, used when configuration is reloaded.
func (e *Engine) SetDisabled(names []domain.ToolName) {
	disabled := make(map[domain.ToolName]struct{}, len(names))
	for _, name := range names {
		disabled[name] = struct{}{}
	}
	e.mu.Lock()
	e.disabled = disabled
	e.mu.Unlock()
}

func (e *Engine) ToolEnabled(name domain.ToolName) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, off := e.disabled[name]
	return !off
}

// EnabledTools lists the enabled tools in registry order.
func (e *Engine) EnabledTools() []domain.ToolName {
	var out []domain.ToolName
	for _, desc := range e.tools.Descriptors() {
		if e.ToolEnabled(desc.Name) {
			out = append(out, desc.Name)
		}
	}
	return out
}

// Curated exposes the leaderboard table.
func (e *Engine) Curated() *curated.Table {
	return e.curated
}

// Tracker exposes the selection state for diagnostics.
func (e *Engine) Tracker() *selection.Tracker {
	return e.tracker
}

var _ domain.ContextResolver = (*Engine)(nil)
