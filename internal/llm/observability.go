package llm

import (
	"github.com/alexanderramin/debot/internal/logger"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	kv := []interface{}{
		"task", event.Task,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.log.Warn("llm_call_failed", append(kv, "error_code", event.ErrorCode)...)
		return
	}
	o.log.Debug("llm_call", kv...)
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
