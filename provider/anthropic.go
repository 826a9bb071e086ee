package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"rxchat/model"
)

// AnthropicProvider implements model.Provider using the official
// Anthropic SDK. Anthropic streams typed events instead of completion
// chunks; the adapter flattens them into the same Fragment sequence
// the other providers produce.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	apiKey  string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Model to use (default: Claude Sonnet 4.5)
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var anthropicModel anthropic.Model
	if modelName == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Name implements model.Provider.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Model implements model.Provider.
func (p *AnthropicProvider) Model() string {
	return string(p.model)
}

// ChatStream implements model.Provider.ChatStream.
func (p *AnthropicProvider) ChatStream(ctx context.Context, req model.ChatRequest) (model.Stream, error) {
	anthropicMessages, systemBlocks := convertToAnthropicMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  anthropicMessages,
		MaxTokens: 4096, // Required by Anthropic API
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}
	if len(req.Tools) > 0 {
		params.Tools = convertToAnthropicTools(req.Tools)
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	return &anthropicStream{
		stream:    stream,
		blockCall: make(map[int64]int),
	}, nil
}

// Ping implements model.Provider.Ping. Anthropic has no health
// endpoint, so a minimal single-token request stands in.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

// convertToAnthropicMessages splits out system text (Anthropic takes
// it as a top-level parameter) and coalesces consecutive tool results
// into a single user turn, the shape the API expects after an
// assistant tool_use turn.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	out := make([]anthropic.MessageParam, 0, len(messages))

	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		switch msg.Role {
		case model.RoleSystem:
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Text()})
		case model.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				out = append(out, assistantToolUseMessage(msg))
				continue
			}
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text())))
		case model.RoleTool:
			var results []anthropic.ContentBlockParamUnion
			for ; i < len(messages) && messages[i].Role == model.RoleTool; i++ {
				results = append(results, anthropic.NewToolResultBlock(messages[i].ToolCallID, messages[i].Text(), false))
			}
			i--
			out = append(out, anthropic.NewUserMessage(results...))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text())))
		}
	}

	return out, systemBlocks
}

func assistantToolUseMessage(msg model.Message) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	if text := msg.Text(); text != "" {
		blocks = append(blocks, anthropic.NewTextBlock(text))
	}
	for _, call := range msg.ToolCalls {
		input := json.RawMessage(call.Arguments)
		// Argument text that never parsed cannot be replayed as-is.
		if !json.Valid(input) {
			input = json.RawMessage(`{}`)
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
	}
	return anthropic.NewAssistantMessage(blocks...)
}

func convertToAnthropicTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: def.Schema["properties"],
		}
		if req, ok := def.Schema["required"].([]any); ok {
			required := make([]string, 0, len(req))
			for _, r := range req {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
			inputSchema.Required = required
		}
		if extra, ok := def.Schema["additionalProperties"]; ok {
			inputSchema.ExtraFields = map[string]any{"additionalProperties": extra}
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" {
			result[i].OfTool.Description = anthropic.String(def.Description)
		}
	}
	return result
}

// anthropicStream adapts the event stream. Content block indexes are
// sparse from the loop's point of view (text blocks occupy indexes
// too), so tool_use blocks get dense call indexes in arrival order.
type anthropicStream struct {
	stream    *ssestream.Stream[anthropic.MessageStreamEventUnion]
	blockCall map[int64]int
	pending   []model.Fragment
	done      bool
}

func (s *anthropicStream) Recv() (model.Fragment, error) {
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
				return model.Fragment{}, fmt.Errorf("Anthropic streaming error: %w", err)
			}
			return model.Fragment{}, io.EOF
		}

		event := s.stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			block := eventVariant.ContentBlock
			if block.Type == "tool_use" {
				callIdx := len(s.blockCall)
				s.blockCall[eventVariant.Index] = callIdx
				s.pending = append(s.pending, model.Fragment{ToolCall: &model.ToolCallDelta{
					Index: callIdx,
					ID:    block.ID,
					Name:  block.Name,
				}})
			}
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if deltaVariant.Text != "" {
					s.pending = append(s.pending, model.Fragment{Text: deltaVariant.Text})
				}
			case anthropic.InputJSONDelta:
				callIdx, ok := s.blockCall[eventVariant.Index]
				if !ok || deltaVariant.PartialJSON == "" {
					continue
				}
				s.pending = append(s.pending, model.Fragment{ToolCall: &model.ToolCallDelta{
					Index:     callIdx,
					Arguments: deltaVariant.PartialJSON,
				}})
			}
		case anthropic.MessageDeltaEvent:
			if reason := mapStopReason(string(eventVariant.Delta.StopReason)); reason != "" {
				s.pending = append(s.pending, model.Fragment{FinishReason: reason})
			}
		}
	}
}

// mapStopReason translates Anthropic stop reasons onto the completion
// vocabulary the conversation loop understands. Unknown reasons pass
// through so the loop can reject them explicitly.
func mapStopReason(reason string) string {
	switch reason {
	case "":
		return ""
	case "end_turn", "stop_sequence":
		return model.FinishStop
	case "tool_use":
		return model.FinishToolCalls
	default:
		return reason
	}
}

func (s *anthropicStream) Close() error {
	return s.stream.Close()
}
