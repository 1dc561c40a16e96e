package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

// ToolName identifies a registered retrieval tool.
type ToolName string

const (
	ToolWebSearch      ToolName = "google_search"
	ToolArxivLookup    ToolName = "arxiv_lookup"
	ToolArxivDigest    ToolName = "arxiv_digest"
	ToolHuggingFace    ToolName = "huggingface_models"
	ToolBenchmarks     ToolName = "ai_benchmarks"
	ToolResearchTrends ToolName = "ai_research_trends"
)

// ToolOrder is the registry order used by the orchestrator.
var ToolOrder = []ToolName{
	ToolWebSearch,
	ToolArxivLookup,
	ToolArxivDigest,
	ToolHuggingFace,
	ToolBenchmarks,
	ToolResearchTrends,
}

// ParseToolName returns the tool matching name, case-insensitively.
func ParseToolName(name string) (ToolName, bool) {
	candidate := ToolName(strings.ToLower(strings.TrimSpace(name)))
	for _, tool := range ToolOrder {
		if tool == candidate {
			return tool, true
		}
	}
	return "", false
}

// AssessmentReason records why a tool was or was not selected.
type AssessmentReason string

const (
	// ReasonNotConfigured means no descriptor exists for the tool.
	ReasonNotConfigured AssessmentReason = "NOT_CONFIGURED"
	// ReasonThresholdMet means the score reached the tool threshold.
	ReasonThresholdMet AssessmentReason = "SCORE_THRESHOLD_MET"
	// ReasonBelowThreshold means the score stayed under the threshold.
	ReasonBelowThreshold AssessmentReason = "SCORE_BELOW_THRESHOLD"
	// ReasonCooldown means the tool ran too recently.
	ReasonCooldown AssessmentReason = "COOLDOWN"
	// ReasonCooldownOverride means a refresh keyword bypassed the cooldown.
	ReasonCooldownOverride AssessmentReason = "COOLDOWN_OVERRIDE"
	// ReasonRecentRepeat means the tool was the last one used and the score is only at threshold.
	ReasonRecentRepeat AssessmentReason = "RECENT_REPEAT"
	// ReasonRecentRepeatAllowed means the tool repeats but scored above threshold.
	ReasonRecentRepeatAllowed AssessmentReason = "RECENT_REPEAT_ALLOWED"
)

// KeywordSet is an unordered set of normalized keywords.
type KeywordSet map[string]struct{}

func NewKeywordSet(words ...string) KeywordSet {
	set := make(KeywordSet, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

func (s KeywordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the keywords in lexical order.
func (s KeywordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for word := range s {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// ContainedIn reports whether any keyword is a substring of text.
func (s KeywordSet) ContainedIn(text string) bool {
	for word := range s {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// Handler fetches raw results for a query. An error is handled like an empty result.
type Handler func(ctx context.Context, query string) (any, error)

// Formatter renders raw handler output. An empty string means no usable data.
type Formatter func(raw any) string

// ToolDescriptor is the immutable selection and execution contract of one tool.
type ToolDescriptor struct {
	Name             ToolName
	Label            string
	StrongKeywords   KeywordSet
	WeakKeywords     KeywordSet
	StrongWeight     int
	WeakWeight       int
	MinScore         int
	MinLengthTrigger int
	Cooldown         time.Duration
	RefreshKeywords  KeywordSet
	TokenOverlap     KeywordSet
	RequiresAPIKey   string
	Available        func() bool
	Handler          Handler
	Formatter        Formatter
	NoDataMessage    string
	CooldownMessage  string
}

// Assessment is the outcome of scoring one query against one tool.
type Assessment struct {
	Tool       ToolName         `json:"tool" yaml:"tool"`
	Score      int              `json:"score" yaml:"score"`
	Threshold  int              `json:"threshold" yaml:"threshold"`
	ShouldRun  bool             `json:"shouldRun" yaml:"shouldRun"`
	Reason     AssessmentReason `json:"reason" yaml:"reason"`
	StrongHits []string         `json:"strongHits" yaml:"strongHits"`
	WeakHits   []string         `json:"weakHits" yaml:"weakHits"`
	Timestamp  time.Time        `json:"timestamp" yaml:"timestamp"`
}
