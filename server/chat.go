package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rxchat/agent"
	"rxchat/i18n"
	"rxchat/model"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the POST /chat body. Stream defaults to true when
// omitted.
type chatRequest struct {
	Message  string        `json:"message"`
	History  []chatMessage `json:"history"`
	UserID   string        `json:"user_id"`
	Stream   *bool         `json:"stream"`
	Language string        `json:"language"`
}

// chatResponse is the buffered (stream=false) reply. ToolCalls is null
// when the model answered without tools.
type chatResponse struct {
	Response  string                 `json:"response"`
	ToolCalls []agent.ToolInvocation `json:"tool_calls"`
}

// handleChat answers POST /chat: Server-Sent Events when stream is true
// (the default), a single JSON payload otherwise.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conversation := s.buildConversation(req)

	if req.Stream == nil || *req.Stream {
		s.streamChat(w, r, conversation)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	text, calls, err := s.agent.Ask(ctx, conversation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Chat error: "+err.Error())
		return
	}

	resp := chatResponse{Response: text}
	if len(calls) > 0 {
		resp.ToolCalls = calls
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleChatSSE answers GET /chat_sse, the EventSource-friendly
// variant: one question per request, always streamed.
func (s *Server) handleChatSSE(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	req := chatRequest{
		Message:  message,
		UserID:   r.URL.Query().Get("user_id"),
		Language: r.URL.Query().Get("language"),
	}
	s.streamChat(w, r, s.buildConversation(req))
}

// buildConversation turns the wire history into model messages behind a
// single system prompt carrying the customer and language context.
// Roles other than assistant are treated as user turns.
func (s *Server) buildConversation(req chatRequest) []model.Message {
	conversation := make([]model.Message, 0, len(req.History)+2)
	conversation = append(conversation, model.NewSystemMessage(s.systemPrompt(req.UserID, req.Language)))

	for _, msg := range req.History {
		switch msg.Role {
		case model.RoleAssistant:
			conversation = append(conversation, model.NewAssistantMessage(msg.Content))
		default:
			conversation = append(conversation, model.NewUserMessage(msg.Content))
		}
	}

	return append(conversation, model.NewUserMessage(req.Message))
}

func (s *Server) systemPrompt(userID, language string) string {
	prompt := agent.SystemPromptForUser(userID)

	loc := s.defaultLanguage
	if language != "" {
		loc = i18n.NormalizeLocale(language)
	}
	if loc == i18n.Hebrew {
		prompt += "\n\nThe customer prefers Hebrew. Answer in Hebrew unless asked otherwise."
	}
	return prompt
}

// streamChat replays the run as Server-Sent Events, one data: frame per
// event, flushed immediately so tokens reach the client as they arrive.
// The run emits its own terminal done or error event; client disconnect
// cancels the request context and abandons the run.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, conversation []model.Message) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := w.(http.Flusher)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	for event := range s.agent.Run(ctx, conversation) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}
}
