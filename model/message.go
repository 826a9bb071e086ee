package model

// Role values for chat messages, mirroring the chat-completions wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in the conversation.
//
// Content is a pointer so an assistant turn that produced only tool calls
// can be replayed with the content field absent rather than empty. Some
// backends reject empty-string content on tool-call turns.
type Message struct {
	Role       string
	Content    *string
	ToolCalls  []ToolCall
	ToolCallID string // set on tool-result messages only
}

// ToolCall is a completed tool invocation requested by the model.
//
// Arguments holds the raw JSON argument text exactly as the model streamed
// it. Keeping the raw text means replayed conversations match what the
// model produced byte for byte; parsing happens at execution time.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Text returns the message content, or "" when the content field is absent.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// NewSystemMessage builds a system message.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: &text}
}

// NewUserMessage builds a user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: &text}
}

// NewAssistantMessage builds a plain assistant message.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: &text}
}

// NewAssistantToolCallMessage builds the assistant message that carries the
// model's tool calls. When the model produced no text alongside the calls,
// Content stays nil so the serialized message omits the field entirely.
func NewAssistantToolCallMessage(text string, calls []ToolCall) Message {
	msg := Message{Role: RoleAssistant, ToolCalls: calls}
	if text != "" {
		msg.Content = &text
	}
	return msg
}

// NewToolMessage builds a tool-result message tied to a tool call id.
func NewToolMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: &content, ToolCallID: callID}
}

// Float returns a pointer to f, for optional numeric fields such as
// ChatRequest.Temperature.
func Float(f float64) *float64 {
	return &f
}
