package telemetry

import (
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	FieldEvent      = "event"
	FieldTool       = "tool"
	FieldReason     = "reason"
	FieldSource     = "source"
	FieldNamespace  = "namespace"
	FieldDurationMs = "duration_ms"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
	FieldLogSource  = "log_source"
)

// LogSourceCore tags records emitted by the engine process itself.
const LogSourceCore = "core"

const (
	EventResolveStart    = "resolve_start"
	EventResolveDone     = "resolve_done"
	EventToolSkipped     = "tool_skipped"
	EventToolFailure     = "tool_failure"
	EventToolEmpty       = "tool_empty"
	EventToolProduced    = "tool_produced"
	EventRefreshSuccess  = "refresh_success"
	EventRefreshFailure  = "refresh_failure"
	EventGeneratorFailed = "generator_failed"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolField(name domain.ToolName) zap.Field {
	return zap.String(FieldTool, string(name))
}

func ReasonField(reason domain.AssessmentReason) zap.Field {
	return zap.String(FieldReason, string(reason))
}

func SourceField(source string) zap.Field {
	return zap.String(FieldSource, source)
}

func NamespaceField(namespace string) zap.Field {
	return zap.String(FieldNamespace, namespace)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TraceIDField(value string) zap.Field {
	return zap.String(FieldTraceID, value)
}

func SpanIDField(value string) zap.Field {
	return zap.String(FieldSpanID, value)
}
