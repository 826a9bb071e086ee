// Package provider implements model.Provider for the supported LLM
// backends (Ollama, OpenAI, OpenRouter, Anthropic).
//
// Each implementation handles its own wire conversions, so the
// conversation loop and HTTP layer stay provider-agnostic: messages
// go in as model.Message, streamed output comes back as
// model.Fragment regardless of backend.
//
// # Architecture
//
//   - model.Provider defines the contract (in the model package, to
//     avoid import cycles)
//   - provider.OllamaProvider adapts Ollama's callback streaming
//   - provider.OpenAIProvider / OpenRouterProvider share the OpenAI
//     chunk format
//   - provider.AnthropicProvider adapts Anthropic's event streaming
//   - provider.NewProvider() factory creates providers from config
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:  provider.ProviderTypeOpenAI,
//	    Model: "gpt-4o-mini",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	stream, err := p.ChatStream(ctx, req)
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // Unused for Ollama
}
