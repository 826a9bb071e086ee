package provider

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"

	"rxchat/model"
)

// OpenAIProvider implements model.Provider against the OpenAI chat
// completions API, using the official SDK.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: Model to use (default: "gpt-4o-mini")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini" // Default to affordable model
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Name implements model.Provider.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model implements model.Provider.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// ChatStream implements model.Provider.ChatStream by opening a
// streaming completion and adapting its chunks to Fragments.
func (p *OpenAIProvider) ChatStream(ctx context.Context, req model.ChatRequest) (model.Stream, error) {
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
	return &openaiStream{stream: stream, label: "OpenAI"}, nil
}

// Ping implements model.Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

// openaiStream adapts the SDK's SSE stream. A single chunk can carry a
// text delta, several tool-call deltas and a finish reason at once, so
// decoded fragments queue up and Recv hands them out one at a time.
// OpenRouter shares this adapter; label keeps errors attributable.
type openaiStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	label   string
	pending []model.Fragment
	done    bool
}

func (s *openaiStream) Recv() (model.Fragment, error) {
	for {
		if len(s.pending) > 0 {
			f := s.pending[0]
			s.pending = s.pending[1:]
			return f, nil
		}
		if s.done {
			return model.Fragment{}, io.EOF
		}

		if !s.stream.Next() {
			s.done = true
			if err := s.stream.Err(); err != nil {
				return model.Fragment{}, fmt.Errorf("%s streaming error: %w", s.label, err)
			}
			return model.Fragment{}, io.EOF
		}

		chunk := s.stream.Current()
		// Keepalive chunks with no choices are skipped.
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]

		if choice.Delta.Content != "" {
			s.pending = append(s.pending, model.Fragment{Text: choice.Delta.Content})
		}
		for _, tc := range choice.Delta.ToolCalls {
			s.pending = append(s.pending, model.Fragment{ToolCall: &model.ToolCallDelta{
				Index:     int(tc.Index),
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}})
		}
		if choice.FinishReason != "" {
			s.pending = append(s.pending, model.Fragment{FinishReason: string(choice.FinishReason)})
		}
	}
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
