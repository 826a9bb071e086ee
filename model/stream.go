package model

// Finish reasons a provider stream may report on its terminal fragment.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
)

// Fragment is one increment of a provider stream: a piece of assistant
// text, a piece of a tool call, or the terminal finish reason. Fields may
// combine in a single fragment (some backends send text and the finish
// reason together).
type Fragment struct {
	Text         string
	ToolCall     *ToolCallDelta
	FinishReason string
}

// ToolCallDelta carries one streamed piece of a tool call. Index groups
// pieces belonging to the same call; ID and Name normally appear on the
// first piece, while the JSON argument text arrives across many.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Event types emitted during an agent run.
const (
	EventText       = "text"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventDone       = "done"
	EventError      = "error"
)

// StreamEvent is one externally visible step of an agent run. The JSON
// shape matches the chat streaming wire format: only fields relevant to
// the event type are present.
type StreamEvent struct {
	Type       string         `json:"type"`
	Content    string         `json:"content,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Arguments  map[string]any `json:"arguments,omitempty"`
	Result     string         `json:"result,omitempty"`
	Err        string         `json:"error,omitempty"`
}

// TextEvent builds a text delta event.
func TextEvent(content string) StreamEvent {
	return StreamEvent{Type: EventText, Content: content}
}

// ToolCallEvent announces a tool invocation before it executes.
// Arguments is nil when the model's argument text failed to parse.
func ToolCallEvent(callID, name string, args map[string]any) StreamEvent {
	return StreamEvent{Type: EventToolCall, ToolCallID: callID, ToolName: name, Arguments: args}
}

// ToolResultEvent reports the serialized result of a tool invocation.
func ToolResultEvent(callID, name, result string) StreamEvent {
	return StreamEvent{Type: EventToolResult, ToolCallID: callID, ToolName: name, Result: result}
}

// DoneEvent marks a successful run. Exactly one DoneEvent or ErrorEvent
// terminates every run.
func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventDone}
}

// ErrorEvent marks a failed run.
func ErrorEvent(err error) StreamEvent {
	return StreamEvent{Type: EventError, Err: err.Error()}
}
