package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"rxchat/model"
)

// OpenRouterProvider implements model.Provider through OpenRouter's
// API, which is OpenAI-compatible. It reuses the OpenAI SDK and the
// same stream adapter; only the base URL and defaults differ.
type OpenRouterProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenRouterProvider creates a new OpenRouter provider instance.
//
// Parameters:
//   - baseURL: OpenRouter API base URL (default: "https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key (required)
//   - model: Model to use, with vendor prefix (e.g. "openai/gpt-4o-mini")
//
// Returns an error if the API key is missing.
func NewOpenRouterProvider(baseURL, apiKey, modelName string) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if modelName == "" {
		modelName = "openai/gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenRouterProvider{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Name implements model.Provider.
func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Model implements model.Provider.
func (p *OpenRouterProvider) Model() string {
	return p.model
}

// ChatStream implements model.Provider.ChatStream.
func (p *OpenRouterProvider) ChatStream(ctx context.Context, req model.ChatRequest) (model.Stream, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(req.Messages),
		Model:    openai.ChatModel(p.model),
	}
	if len(req.Tools) > 0 {
		params.Tools = ConvertToOpenAITools(req.Tools)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	return &openaiStream{stream: stream, label: "OpenRouter"}, nil
}

// Ping implements model.Provider.Ping by attempting to list models.
func (p *OpenRouterProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenRouter ping failed: %w", err)
	}
	return nil
}
