package model

import "context"

// Provider abstracts LLM provider implementations (OpenAI, OpenRouter,
// Anthropic, Ollama) using provider-agnostic types from the model layer.
//
// This interface is defined in the model package (not the provider package)
// to avoid import cycles: provider implementations can import model, and the
// agent can use the Provider interface without importing any concrete
// provider.
type Provider interface {
	// Name returns the provider id ("openai", "openrouter", "anthropic", "ollama").
	Name() string

	// Model returns the active model name.
	Model() string

	// ChatStream opens a streaming completion for the request. The caller
	// owns the returned stream and must Close it.
	ChatStream(ctx context.Context, req ChatRequest) (Stream, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// ChatRequest is a single model invocation: the conversation so far plus
// the tools the model may call on this turn.
//
// Temperature is optional; a nil value leaves the backend default in
// place. Tool-planning turns pin it low, continuation turns leave it unset.
type ChatRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	Temperature *float64
}

// ToolDefinition describes a callable tool in provider-neutral form.
// Schema is a JSON Schema object for the tool's parameters; each provider
// converts it to its own wire format.
type ToolDefinition struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Stream yields fragments of one model response. Recv returns io.EOF
// after the final fragment. Close releases the underlying connection and
// is safe to call more than once.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}
