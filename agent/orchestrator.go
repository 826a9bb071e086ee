// Package agent implements the streaming tool-call orchestration loop.
//
// A run is at most two model turns: a planning turn where the model
// may request tools, then (if it did) one continuation turn with the
// tool results appended. The cap is deliberate: it bounds latency and
// rules out infinite tool-calling loops. Text is re-emitted the moment
// it arrives; tool calls are accumulated from their streamed deltas,
// executed sequentially in call order, and fed back before the
// continuation.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"rxchat/model"
	"rxchat/tools"
)

// planningTemperature keeps the tool-selection turn deterministic and
// quick. The continuation turn uses the provider default.
const planningTemperature = 0.1

// eventBuffer smooths producer/consumer handoff without letting the
// run get far ahead of a slow reader.
const eventBuffer = 16

// Orchestrator drives one conversation turn against a provider, with
// tool execution through the registry. The observer may be nil.
type Orchestrator struct {
	provider model.Provider
	registry *tools.Registry
	observer *Observer
}

func New(provider model.Provider, registry *tools.Registry, observer *Observer) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		registry: registry,
		observer: observer,
	}
}

// Run processes the conversation and returns a channel of stream
// events. The channel is closed after the terminal event; every run
// ends with exactly one done event or one error event. Cancelling ctx
// abandons the run without a terminal event.
func (o *Orchestrator) Run(ctx context.Context, conversation []model.Message) <-chan model.StreamEvent {
	events := make(chan model.StreamEvent, eventBuffer)
	go func() {
		defer close(events)
		o.run(ctx, conversation, events)
	}()
	return events
}

// ToolInvocation captures one executed tool call for non-streaming
// callers. Arguments is nil when the model's argument text never
// parsed.
type ToolInvocation struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    string         `json:"result"`
}

// Ask runs the conversation and buffers the streamed events into a
// single response: the concatenated assistant text plus the tool
// invocations that produced it.
func (o *Orchestrator) Ask(ctx context.Context, conversation []model.Message) (string, []ToolInvocation, error) {
	var text strings.Builder
	var invocations []ToolInvocation

	for event := range o.Run(ctx, conversation) {
		switch event.Type {
		case model.EventText:
			text.WriteString(event.Content)
		case model.EventToolCall:
			invocations = append(invocations, ToolInvocation{
				Tool:      event.ToolName,
				Arguments: event.Arguments,
			})
		case model.EventToolResult:
			// Sequential execution: the result always belongs to the
			// invocation announced last.
			if n := len(invocations); n > 0 {
				invocations[n-1].Result = event.Result
			}
		case model.EventError:
			return text.String(), invocations, errors.New(event.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return text.String(), invocations, err
	}
	return text.String(), invocations, nil
}

func (o *Orchestrator) run(ctx context.Context, conversation []model.Message, events chan<- model.StreamEvent) {
	start := time.Now()

	messages := withSystemPrompt(conversation)
	if !hasUserMessage(messages) {
		o.emit(ctx, events, model.ErrorEvent(errors.New("conversation must contain at least one user message")))
		return
	}

	o.observer.turnStart(o.provider.Model(), len(messages))

	stream, err := o.provider.ChatStream(ctx, model.ChatRequest{
		Messages:    messages,
		Tools:       o.registry.Definitions(),
		Temperature: model.Float(planningTemperature),
	})
	if err != nil {
		o.emit(ctx, events, model.ErrorEvent(err))
		return
	}

	turn, err := o.consumePlanningTurn(ctx, stream, events, start)
	stream.Close()
	if err != nil {
		o.emit(ctx, events, model.ErrorEvent(err))
		return
	}
	if turn == nil {
		// Consumer went away mid-stream.
		return
	}

	if turn.finish == model.FinishStop {
		o.observer.turnEnd(time.Since(start))
		o.emit(ctx, events, model.DoneEvent())
		return
	}

	// The assistant message replays the raw argument text; parsing
	// happens per call below so one bad call cannot poison the rest.
	messages = append(messages, model.NewAssistantToolCallMessage(turn.text, turn.calls))

	for _, call := range turn.calls {
		msg, ok := o.executeCall(ctx, call, events)
		if !ok {
			return
		}
		messages = append(messages, msg)
	}

	if err := o.continueAfterTools(ctx, messages, events); err != nil {
		o.emit(ctx, events, model.ErrorEvent(err))
		return
	}

	o.observer.turnEnd(time.Since(start))
	o.emit(ctx, events, model.DoneEvent())
}

// emit delivers an event unless the consumer's context is gone.
func (o *Orchestrator) emit(ctx context.Context, events chan<- model.StreamEvent, event model.StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// planningTurn is the outcome of the first model turn: accumulated
// text, sealed tool calls in index order, and the terminal marker.
type planningTurn struct {
	text   string
	calls  []model.ToolCall
	finish string
}

// consumePlanningTurn streams the first turn, re-emitting text deltas
// as they arrive and accumulating tool-call deltas by call index. A
// delta opening a new index seals the previous call; argument text for
// the open index is concatenated verbatim. Returns (nil, nil) if the
// consumer disappeared.
func (o *Orchestrator) consumePlanningTurn(ctx context.Context, stream model.Stream, events chan<- model.StreamEvent, start time.Time) (*planningTurn, error) {
	var text strings.Builder
	var calls []model.ToolCall
	var current *model.ToolCall
	var args strings.Builder
	currentIndex := -1
	sawFirst := false

	seal := func() {
		if current != nil {
			current.Arguments = args.String()
			calls = append(calls, *current)
			args.Reset()
		}
	}

	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if !sawFirst {
			sawFirst = true
			o.observer.firstToken(time.Since(start))
		}

		if fragment.Text != "" {
			text.WriteString(fragment.Text)
			if !o.emit(ctx, events, model.TextEvent(fragment.Text)) {
				return nil, nil
			}
		}

		if delta := fragment.ToolCall; delta != nil {
			if delta.Index != currentIndex {
				seal()
				currentIndex = delta.Index
				id := delta.ID
				if id == "" {
					id = fmt.Sprintf("call_%d", delta.Index)
				}
				current = &model.ToolCall{ID: id, Name: delta.Name}
			}
			if delta.Arguments != "" {
				args.WriteString(delta.Arguments)
			}
		}

		switch fragment.FinishReason {
		case "":
		case model.FinishStop:
			return &planningTurn{text: text.String(), finish: model.FinishStop}, nil
		case model.FinishToolCalls:
			seal()
			if len(calls) == 0 {
				return nil, errors.New("model requested tool calls but sent none")
			}
			return &planningTurn{text: text.String(), calls: calls, finish: model.FinishToolCalls}, nil
		default:
			return nil, fmt.Errorf("unexpected finish reason %q from model stream", fragment.FinishReason)
		}
	}

	return nil, errors.New("model stream ended without a finish reason")
}

// executeCall announces one sealed call, runs it, and returns the tool
// message to append. Argument text that fails to parse skips the
// registry: the failure becomes that call's result and the turn
// continues. Returns ok=false if the consumer disappeared.
func (o *Orchestrator) executeCall(ctx context.Context, call model.ToolCall, events chan<- model.StreamEvent) (model.Message, bool) {
	var arguments map[string]any
	if err := json.Unmarshal([]byte(call.Arguments), &arguments); err != nil {
		if !o.emit(ctx, events, model.ToolCallEvent(call.ID, call.Name, nil)) {
			return model.Message{}, false
		}
		result := tools.ErrorResult("invalid arguments: " + err.Error())
		if !o.emit(ctx, events, model.ToolResultEvent(call.ID, call.Name, result)) {
			return model.Message{}, false
		}
		return model.NewToolMessage(call.ID, result), true
	}

	if !o.emit(ctx, events, model.ToolCallEvent(call.ID, call.Name, arguments)) {
		return model.Message{}, false
	}

	toolStart := time.Now()
	result := o.registry.Execute(ctx, call.Name, arguments)
	o.observer.toolCall(call.Name, time.Since(toolStart))

	if !o.emit(ctx, events, model.ToolResultEvent(call.ID, call.Name, result)) {
		return model.Message{}, false
	}
	return model.NewToolMessage(call.ID, result), true
}

// continueAfterTools issues the single continuation turn: no tools, no
// temperature override, text only. Its terminal marker must be a plain
// stop; anything else is a protocol error.
func (o *Orchestrator) continueAfterTools(ctx context.Context, messages []model.Message, events chan<- model.StreamEvent) error {
	stream, err := o.provider.ChatStream(ctx, model.ChatRequest{Messages: messages})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return errors.New("model stream ended without a finish reason")
		}
		if err != nil {
			return err
		}

		if fragment.Text != "" {
			if !o.emit(ctx, events, model.TextEvent(fragment.Text)) {
				return ctx.Err()
			}
		}

		switch fragment.FinishReason {
		case "":
		case model.FinishStop:
			return nil
		default:
			return fmt.Errorf("unexpected finish reason %q in continuation turn", fragment.FinishReason)
		}
	}
}

// withSystemPrompt prepends the standing prompt unless the caller
// already supplied a system message.
func withSystemPrompt(conversation []model.Message) []model.Message {
	for _, msg := range conversation {
		if msg.Role == model.RoleSystem {
			return conversation
		}
	}

	messages := make([]model.Message, 0, len(conversation)+1)
	messages = append(messages, model.NewSystemMessage(SystemPrompt))
	return append(messages, conversation...)
}

func hasUserMessage(conversation []model.Message) bool {
	for _, msg := range conversation {
		if msg.Role == model.RoleUser {
			return true
		}
	}
	return false
}
