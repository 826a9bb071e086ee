package agent

import (
	"time"

	"rxchat/config"
)

// Observer receives orchestration lifecycle callbacks for latency
// instrumentation. Every field is optional and a nil *Observer
// disables instrumentation entirely, keeping the run loop a single
// code path.
type Observer struct {
	OnTurnStart  func(modelName string, messageCount int)
	OnFirstToken func(latency time.Duration)
	OnToolCall   func(name string, duration time.Duration)
	OnTurnEnd    func(total time.Duration)
}

func (o *Observer) turnStart(modelName string, messageCount int) {
	if o != nil && o.OnTurnStart != nil {
		o.OnTurnStart(modelName, messageCount)
	}
}

func (o *Observer) firstToken(latency time.Duration) {
	if o != nil && o.OnFirstToken != nil {
		o.OnFirstToken(latency)
	}
}

func (o *Observer) toolCall(name string, duration time.Duration) {
	if o != nil && o.OnToolCall != nil {
		o.OnToolCall(name, duration)
	}
}

func (o *Observer) turnEnd(total time.Duration) {
	if o != nil && o.OnTurnEnd != nil {
		o.OnTurnEnd(total)
	}
}

// slowToolThreshold marks tool executions worth calling out in logs.
const slowToolThreshold = 100 * time.Millisecond

// DebugObserver logs turn timings through the debug log. Returns nil
// when debug logging is off, which disables the hook entirely.
func DebugObserver() *Observer {
	if config.DebugLog == nil {
		return nil
	}

	return &Observer{
		OnTurnStart: func(modelName string, messageCount int) {
			config.DebugLog.Printf("[Agent] Chat started with model: %s (%d messages)", modelName, messageCount)
		},
		OnFirstToken: func(latency time.Duration) {
			config.DebugLog.Printf("[Agent] First chunk: %dms", latency.Milliseconds())
		},
		OnToolCall: func(name string, duration time.Duration) {
			if duration > slowToolThreshold {
				config.DebugLog.Printf("[Agent] SLOW TOOL: %s took %dms", name, duration.Milliseconds())
				return
			}
			config.DebugLog.Printf("[Agent] Tool %s: %dms", name, duration.Milliseconds())
		},
		OnTurnEnd: func(total time.Duration) {
			config.DebugLog.Printf("[Agent] Total time: %dms", total.Milliseconds())
		},
	}
}
