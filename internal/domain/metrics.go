package domain

import "time"

// ToolRunStatus labels the outcome of a tool execution.
type ToolRunStatus string

const (
	// ToolRunProduced indicates the formatter produced a context block.
	ToolRunProduced ToolRunStatus = "produced"
	// ToolRunEmpty indicates the handler returned nothing usable.
	ToolRunEmpty ToolRunStatus = "empty"
	// ToolRunFailed indicates the handler returned an error.
	ToolRunFailed ToolRunStatus = "failed"
)

// FetchStatus labels the outcome of a remote fetch.
type FetchStatus string

const (
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusEmpty   FetchStatus = "empty"
	FetchStatusError   FetchStatus = "error"
)

// CacheResult labels a cache lookup.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// RefreshOutcome labels a curated table refresh.
type RefreshOutcome string

const (
	RefreshOutcomeCached  RefreshOutcome = "cached"
	RefreshOutcomeSuccess RefreshOutcome = "success"
	RefreshOutcomeFailure RefreshOutcome = "failure"
)

// ToolRunMetric captures one tool execution.
type ToolRunMetric struct {
	Tool     ToolName
	Status   ToolRunStatus
	Duration time.Duration
}

// Metrics records engine observations.
type Metrics interface {
	ObserveAssessment(tool ToolName, reason AssessmentReason)
	ObserveToolRun(metric ToolRunMetric)
	ObserveFetch(source string, status FetchStatus)
	ObserveCacheLookup(namespace string, result CacheResult)
	ObserveCuratedRefresh(outcome RefreshOutcome, entries int)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) ObserveAssessment(ToolName, AssessmentReason) {}
func (NoopMetrics) ObserveToolRun(ToolRunMetric)                  {}
func (NoopMetrics) ObserveFetch(string, FetchStatus)              {}
func (NoopMetrics) ObserveCacheLookup(string, CacheResult)        {}
func (NoopMetrics) ObserveCuratedRefresh(RefreshOutcome, int)     {}
