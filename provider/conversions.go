package provider

import (
	"encoding/json"

	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"rxchat/model"
)

// ConvertToOpenAIMessages maps conversation messages to the OpenAI
// wire format. Assistant tool-call turns replay the original call IDs
// and raw argument text, so the transcript the endpoint sees matches
// what the model produced byte for byte.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Text()))
		case model.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				result = append(result, assistantToolCallMessage(msg))
				continue
			}
			result = append(result, openai.AssistantMessage(msg.Text()))
		case model.RoleTool:
			result = append(result, openai.ToolMessage(msg.Text(), msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Text()))
		}
	}

	return result
}

func assistantToolCallMessage(msg model.Message) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(msg.ToolCalls))
	for i, call := range msg.ToolCalls {
		calls[i] = openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			},
		}
	}

	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	// Content stays absent when the planning turn produced no text.
	if text := msg.Text(); text != "" {
		assistant.Content.OfString = openai.String(text)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

// ConvertToOpenAITools maps tool definitions to the OpenAI
// function-calling format. Returns nil for an empty list so the
// request omits the tools field entirely.
func ConvertToOpenAITools(defs []model.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(defs))
	for i, def := range defs {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Schema),
			},
		)
	}
	return result
}

// ConvertToOllamaMessages maps conversation messages to Ollama's API
// shape. Ollama parses tool arguments into maps, so raw argument text
// is decoded on the way in; text that never parsed is replayed as an
// empty object.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Text(),
		}
		if len(msg.ToolCalls) > 0 {
			result[i].ToolCalls = convertToOllamaToolCalls(msg.ToolCalls)
		}
	}
	return result
}

func convertToOllamaToolCalls(calls []model.ToolCall) []api.ToolCall {
	result := make([]api.ToolCall, len(calls))
	for i, call := range calls {
		args := api.ToolCallFunctionArguments{}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				args = api.ToolCallFunctionArguments{}
			}
		}
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: args,
			},
		}
	}
	return result
}

// toolArgumentsJSON renders Ollama's parsed argument maps back to the
// raw JSON text the orchestration layer works with.
func toolArgumentsJSON(args api.ToolCallFunctionArguments) string {
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ConvertToOllamaTools maps tool definitions to Ollama's typed tool
// format. Ollama has no additionalProperties or numeric-bound
// keywords, so those constraints are enforced server-side only.
func ConvertToOllamaTools(defs []model.ToolDefinition) []api.Tool {
	if len(defs) == 0 {
		return nil
	}

	result := make([]api.Tool, 0, len(defs))
	for _, def := range defs {
		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  convertSchemaToParameters(def.Schema),
			},
		})
	}
	return result
}

func convertSchemaToParameters(schema map[string]any) api.ToolFunctionParameters {
	params := api.ToolFunctionParameters{
		Type:       "object",
		Properties: make(map[string]api.ToolProperty),
	}
	if t, ok := schema["type"].(string); ok {
		params.Type = t
	}
	if req, ok := schema["required"].([]any); ok {
		required := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
		params.Required = required
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for name, value := range props {
			params.Properties[name] = convertPropertyValue(value)
		}
	}
	return params
}

func convertPropertyValue(propValue any) api.ToolProperty {
	toolProp := api.ToolProperty{}

	propMap, ok := propValue.(map[string]any)
	if !ok {
		return toolProp
	}

	// Type can be a string or a list of strings
	if typeVal, ok := propMap["type"]; ok {
		switch t := typeVal.(type) {
		case string:
			toolProp.Type = api.PropertyType{t}
		case []any:
			types := make([]string, 0, len(t))
			for _, v := range t {
				if s, ok := v.(string); ok {
					types = append(types, s)
				}
			}
			toolProp.Type = api.PropertyType(types)
		}
	}
	if desc, ok := propMap["description"].(string); ok {
		toolProp.Description = desc
	}
	if enumVal, ok := propMap["enum"].([]any); ok {
		toolProp.Enum = enumVal
	}
	if items, ok := propMap["items"]; ok {
		toolProp.Items = items
	}

	return toolProp
}
