package testutil

import (
	"rxchat/model"
)

// SingleUserMessage returns a one-message conversation for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{model.NewUserMessage(content)}
}

// TestToolDefinitions returns sample tool definitions for testing
func TestToolDefinitions() []model.ToolDefinition {
	return []model.ToolDefinition{
		{
			Name:        "get_weather",
			Description: "Get the current weather for a location",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "The city and state, e.g. San Francisco, CA",
					},
				},
				"required": []any{"location"},
			},
		},
	}
}

// TextScript builds a fragment sequence that streams the given text
// chunks and finishes with a normal stop.
func TextScript(chunks ...string) []model.Fragment {
	fragments := make([]model.Fragment, 0, len(chunks)+1)
	for _, chunk := range chunks {
		fragments = append(fragments, model.Fragment{Text: chunk})
	}
	return append(fragments, model.Fragment{FinishReason: model.FinishStop})
}

// CallScript builds a fragment sequence for a single tool call whose
// argument text arrives split across the given chunks, finishing with
// a tool_calls stop.
func CallScript(id, name string, argChunks ...string) []model.Fragment {
	fragments := []model.Fragment{
		{ToolCall: &model.ToolCallDelta{Index: 0, ID: id, Name: name}},
	}
	for _, chunk := range argChunks {
		fragments = append(fragments, model.Fragment{ToolCall: &model.ToolCallDelta{Index: 0, Arguments: chunk}})
	}
	return append(fragments, model.Fragment{FinishReason: model.FinishToolCalls})
}
