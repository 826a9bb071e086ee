// Package tools implements the pharmacy functions exposed to the
// model: JSON Schema definitions, argument validation, dispatch,
// result caching and serialization.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"rxchat/config"
	"rxchat/model"
	"rxchat/store"
)

// Tool couples a definition with its handler. The resolved schema
// validates arguments before the handler runs. A run error is always
// one of the typed errors in errors.go; domain failures come back as
// envelope values, not errors.
type Tool struct {
	Name        string
	Description string
	schema      *jsonschema.Schema
	resolved    *jsonschema.Resolved
	run         func(ctx context.Context, raw json.RawMessage) (any, error)
}

// SchemaJSON returns the parameter schema in wire form, for transports
// that register tools by raw schema.
func (t *Tool) SchemaJSON() json.RawMessage {
	data, err := json.Marshal(t.schema)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return data
}

// Registry dispatches tool calls by name.
type Registry struct {
	store  *store.Store
	ledger *store.Ledger
	cache  *Cache
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry wires the nine pharmacy tools against the given catalog.
// The ledger may be nil; reservations are then confirmed without an
// audit row.
func NewRegistry(st *store.Store, ledger *store.Ledger) (*Registry, error) {
	r := &Registry{
		store:  st,
		ledger: ledger,
		cache:  NewCache(),
		byName: make(map[string]*Tool),
	}
	if err := r.register(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) add(name, description string, schema *jsonschema.Schema, run func(ctx context.Context, raw json.RawMessage) (any, error)) error {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve schema for %s: %w", name, err)
	}

	t := &Tool{
		Name:        name,
		Description: description,
		schema:      schema,
		resolved:    resolved,
		run:         run,
	}
	r.tools = append(r.tools, t)
	r.byName[name] = t
	return nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []*Tool {
	return r.tools
}

// Count reports how many tools are registered.
func (r *Registry) Count() int {
	return len(r.tools)
}

// CacheSize reports how many results are memoized.
func (r *Registry) CacheSize() int {
	return r.cache.Len()
}

// Definitions returns the tool list in the shape providers send to
// their model endpoints.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Schema:      schemaMap(t.schema),
		})
	}
	return defs
}

func schemaMap(s *jsonschema.Schema) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"type": "object"}
	}
	return m
}

// Execute runs one tool call and returns the serialized result the
// model sees. Every outcome comes back as a {success, ...} envelope;
// Execute never returns a Go error because the conversation loop
// always needs a tool result to continue.
//
// Identical calls are served from cache. The key is the tool name plus
// the canonical (sorted-key) argument JSON, so argument order in the
// model output does not affect hits.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	start := time.Now()

	tool, ok := r.byName[name]
	if !ok {
		return ErrorResult(fmt.Errorf("%w: %s", ErrUnknownTool, name).Error())
	}

	if args == nil {
		args = map[string]any{}
	}

	canonical, err := json.Marshal(args)
	if err != nil {
		return ErrorResult(fmt.Sprintf("invalid arguments: %v", err))
	}

	key := name + "-" + string(canonical)
	if cached, ok := r.cache.Get(key); ok {
		if config.DebugLog != nil {
			config.DebugLog.Printf("tool %s cache hit in %s", name, time.Since(start))
		}
		return cached
	}

	serialized := Serialize(r.invoke(ctx, tool, canonical))
	r.cache.Set(key, serialized)

	if config.DebugLog != nil {
		config.DebugLog.Printf("tool %s executed in %s", name, time.Since(start))
	}
	return serialized
}

// invoke validates and runs the handler, converting typed errors and
// panics into error envelopes so one bad tool call cannot kill the
// conversation loop.
func (r *Registry) invoke(ctx context.Context, tool *Tool, canonical json.RawMessage) (result any) {
	defer func() {
		if rec := recover(); rec != nil {
			result = fail(fmt.Sprintf("execution error: %v", rec))
		}
	}()

	var decoded any
	if err := json.Unmarshal(canonical, &decoded); err != nil {
		inv := &InvalidArgumentsError{Tool: tool.Name, Err: err}
		return fail(inv.Error())
	}
	if err := tool.resolved.Validate(decoded); err != nil {
		inv := &InvalidArgumentsError{Tool: tool.Name, Err: err}
		return fail(inv.Error())
	}

	out, err := tool.run(ctx, canonical)
	if err != nil {
		var inv *InvalidArgumentsError
		if errors.As(err, &inv) && inv.Tool == "" {
			inv.Tool = tool.Name
		}
		return fail(err.Error())
	}
	return out
}

// Serialize renders a tool result as indented JSON. Hebrew text stays
// unescaped, the model reads it directly.
func Serialize(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success": false, "error": "serialization failed: %v"}`, err)
	}
	return string(data)
}
