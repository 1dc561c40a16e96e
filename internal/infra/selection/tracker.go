// Package selection gates tool execution with cooldowns and anti-repeat rules.
package selection

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/scoring"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

// Lookup resolves a tool descriptor by name.
type Lookup interface {
	Lookup(name domain.ToolName) (domain.ToolDescriptor, bool)
}

type emptyLookup struct{}

func (emptyLookup) Lookup(domain.ToolName) (domain.ToolDescriptor, bool) { return domain.ToolDescriptor{}, false }

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
	Now     func() time.Time
}

// Tracker owns the cooldown map, the last-tool marker and the last assessment per tool.
type Tracker struct {
	tools   Lookup
	logger  *zap.Logger
	metrics domain.Metrics
	now     func() time.Time

	mu          sync.Mutex
	lastUsed    map[domain.ToolName]time.Time
	lastTool    domain.ToolName
	assessments map[domain.ToolName]domain.Assessment
}

func NewTracker(tools Lookup, opts TrackerOptions) *Tracker {
	if tools == nil {
		tools = emptyLookup{}
	}
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
	return &Tracker{
		tools:       tools,
		logger:      logger.Named("selection"),
		metrics:     metrics,
		now:         now,
		lastUsed:    make(map[domain.ToolName]time.Time),
		assessments: make(map[domain.ToolName]domain.Assessment),
	}
}

// Assess scores normalized text for a tool. Cooldown and anti-repeat gates only
// apply when considerCooldown is set.
func (t *Tracker) Assess(name domain.ToolName, normalized string, tokens normalize.Tokens, considerCooldown bool) domain.Assessment {
	desc, ok := t.tools.Lookup(name)
	if !ok {
		t.metrics.ObserveAssessment(name, domain.ReasonNotConfigured)
		return domain.Assessment{Tool: name, Reason: domain.ReasonNotConfigured, Timestamp: t.now()}
	}
	if tokens == nil {
		tokens = normalize.Split(normalized)
	}

	result := scoring.Score(desc, normalized, tokens)
	shouldRun := result.Score >= desc.MinScore
	reason := domain.ReasonBelowThreshold
	if shouldRun {
		reason = domain.ReasonThresholdMet
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if shouldRun && considerCooldown && desc.Cooldown > 0 {
		if last, used := t.lastUsed[name]; used && now.Sub(last) < desc.Cooldown {
			if desc.RefreshKeywords.ContainedIn(normalized) {
				reason = domain.ReasonCooldownOverride
			} else {
				shouldRun = false
				reason = domain.ReasonCooldown
			}
		}
	}

	if shouldRun && considerCooldown && t.lastTool == name && !desc.RefreshKeywords.ContainedIn(normalized) {
		if result.Score > desc.MinScore {
			reason = domain.ReasonRecentRepeatAllowed
		} else {
			shouldRun = false
			reason = domain.ReasonRecentRepeat
		}
	}

	assessment := domain.Assessment{
		Tool:       name,
		Score:      result.Score,
		Threshold:  desc.MinScore,
		ShouldRun:  shouldRun,
		Reason:     reason,
		StrongHits: result.Strong,
		WeakHits:   result.Weak,
		Timestamp:  now,
	}
	t.assessments[name] = assessment
	t.metrics.ObserveAssessment(name, reason)

	t.logger.Debug("tool assessment",
		telemetry.ToolField(name),
		zap.Int("score", assessment.Score),
		zap.Int("threshold", assessment.Threshold),
		telemetry.ReasonField(reason),
		zap.String("strong", strings.Join(assessment.StrongHits, ",")),
		zap.String("weak", strings.Join(assessment.WeakHits, ",")),
	)
	return assessment
}

// RegisterUsage records a successful invocation of name at the current time.
func (t *Tracker) RegisterUsage(name domain.ToolName) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed[name] = t.now()
	t.lastTool = name
}

// LastTool returns the most recently invoked tool, if any.
func (t *Tracker) LastTool() (domain.ToolName, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTool, t.lastTool != ""
}

// LastAssessments returns a copy of the latest assessment per tool.
func (t *Tracker) LastAssessments() map[domain.ToolName]domain.Assessment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[domain.ToolName]domain.Assessment, len(t.assessments))
	for name, assessment := range t.assessments {
		out[name] = assessment
	}
	return out
}

// Reset clears cooldowns, the last-tool marker and stored assessments.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed = make(map[domain.ToolName]time.Time)
	t.lastTool = ""
	t.assessments = make(map[domain.ToolName]domain.Assessment)
}
