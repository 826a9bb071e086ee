package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"rxchat/model"
)

// ScriptedProvider implements model.Provider for testing. Each
// ChatStream call plays back the next scripted fragment sequence and
// records the request for assertions. Override the func fields to
// inject custom behavior.
type ScriptedProvider struct {
	// Configurable responses
	ChatStreamFunc func(ctx context.Context, req model.ChatRequest) (model.Stream, error)
	PingFunc       func(ctx context.Context) error

	// Scripts holds one fragment sequence per expected ChatStream
	// call, played back in order.
	Scripts [][]model.Fragment

	// StreamErrs optionally terminates the matching script with an
	// error instead of a clean end of stream.
	StreamErrs []error

	modelName string

	mu       sync.Mutex
	requests []model.ChatRequest
	turn     int
}

// NewScriptedProvider creates a scripted provider that answers
// successive ChatStream calls with the given fragment sequences.
func NewScriptedProvider(scripts ...[]model.Fragment) *ScriptedProvider {
	return &ScriptedProvider{
		Scripts:   scripts,
		modelName: "scripted-model",
	}
}

func (p *ScriptedProvider) Name() string {
	return "scripted"
}

func (p *ScriptedProvider) Model() string {
	return p.modelName
}

func (p *ScriptedProvider) ChatStream(ctx context.Context, req model.ChatRequest) (model.Stream, error) {
	if p.ChatStreamFunc != nil {
		return p.ChatStreamFunc(ctx, req)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	turn := p.turn
	p.turn++

	if turn >= len(p.Scripts) {
		return nil, fmt.Errorf("no script for request %d", turn)
	}

	stream := &scriptedStream{fragments: p.Scripts[turn]}
	if turn < len(p.StreamErrs) {
		stream.err = p.StreamErrs[turn]
	}
	return stream, nil
}

func (p *ScriptedProvider) Ping(ctx context.Context) error {
	if p.PingFunc != nil {
		return p.PingFunc(ctx)
	}
	return nil
}

// Requests returns a copy of every ChatRequest seen so far.
func (p *ScriptedProvider) Requests() []model.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.ChatRequest(nil), p.requests...)
}

type scriptedStream struct {
	fragments []model.Fragment
	err       error
	pos       int
}

func (s *scriptedStream) Recv() (model.Fragment, error) {
	if s.pos >= len(s.fragments) {
		if s.err != nil {
			return model.Fragment{}, s.err
		}
		return model.Fragment{}, io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *scriptedStream) Close() error {
	return nil
}
