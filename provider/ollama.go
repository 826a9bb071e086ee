package provider

import (
	"context"
	"fmt"
	"io"

	"github.com/ollama/ollama/api"

	"rxchat/model"
	"rxchat/ollama"
)

// OllamaProvider wraps the ollama.Client to implement model.Provider.
//
// Ollama's API is callback driven and delivers tool calls whole, with
// arguments already parsed into maps. The adapter bridges callbacks
// onto the pull-based Stream interface and renders each call as a
// single complete fragment, so the orchestration layer sees the same
// shape it gets from the delta-streaming providers.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: Ollama server URL (default: "http://localhost:11434")
//   - model: Model name (default: "llama3.1:latest")
//
// Returns an error if the baseURL cannot be parsed.
func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Name implements model.Provider.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model implements model.Provider.
func (p *OllamaProvider) Model() string {
	return p.client.Model()
}

// ChatStream implements model.Provider.ChatStream.
//
// Tool definitions are dropped for models not known to support tool
// calling; sending them anyway makes some models echo raw JSON.
func (p *OllamaProvider) ChatStream(ctx context.Context, req model.ChatRequest) (model.Stream, error) {
	ollamaMessages := ConvertToOllamaMessages(req.Messages)

	var ollamaTools []api.Tool
	if len(req.Tools) > 0 && p.client.SupportsToolCalling() {
		ollamaTools = ConvertToOllamaTools(req.Tools)
	}

	ctx, cancel := context.WithCancel(ctx)
	fragments := make(chan model.Fragment, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(fragments)

		emit := func(f model.Fragment) error {
			select {
			case fragments <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		callIndex := 0
		sawToolCalls := false

		err := p.client.ChatWithTools(ctx, ollamaMessages, ollamaTools, func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				if err := emit(model.Fragment{Text: resp.Message.Content}); err != nil {
					return err
				}
			}
			for _, call := range resp.Message.ToolCalls {
				sawToolCalls = true
				fragment := model.Fragment{ToolCall: &model.ToolCallDelta{
					Index:     callIndex,
					Name:      call.Function.Name,
					Arguments: toolArgumentsJSON(call.Function.Arguments),
				}}
				callIndex++
				if err := emit(fragment); err != nil {
					return err
				}
			}
			if resp.Done {
				reason := model.FinishStop
				if sawToolCalls {
					reason = model.FinishToolCalls
				}
				return emit(model.Fragment{FinishReason: reason})
			}
			return nil
		})
		if err != nil {
			errc <- fmt.Errorf("Ollama streaming error: %w", err)
		}
	}()

	return &ollamaStream{
		fragments: fragments,
		errc:      errc,
		cancel:    cancel,
	}, nil
}

// Ping implements model.Provider.Ping.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}

type ollamaStream struct {
	fragments <-chan model.Fragment
	errc      <-chan error
	cancel    context.CancelFunc
	done      bool
}

func (s *ollamaStream) Recv() (model.Fragment, error) {
	if s.done {
		return model.Fragment{}, io.EOF
	}

	f, ok := <-s.fragments
	if !ok {
		s.done = true
		select {
		case err := <-s.errc:
			return model.Fragment{}, err
		default:
			return model.Fragment{}, io.EOF
		}
	}
	return f, nil
}

func (s *ollamaStream) Close() error {
	s.cancel()
	return nil
}
