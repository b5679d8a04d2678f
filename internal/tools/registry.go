// Package tools exposes the API client as a catalog of agent-callable tools.
// Each tool carries a generated JSON schema for its arguments and renders
// every failure as a structured, agent-readable payload instead of an opaque
// transport error.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// Static errors for err113 compliance.
var (
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolNameRequired      = errors.New("tool name is required")
	ErrToolHandlerRequired   = errors.New("tool handler is required")
)

// Handler executes one tool invocation. The returned value is marshaled to
// JSON as the tool result.
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool is one agent-callable operation.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}

// Registry holds tools in registration order. Order is stable so the catalog
// presented to an agent never shuffles between runs.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool. Names are unique.
func (r *Registry) Register(tool *Tool) error {
	if tool.Name == "" {
		return ErrToolNameRequired
	}

	if tool.Handler == nil {
		return ErrToolHandlerRequired
	}

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}

	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)

	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.tools[name]

	return tool, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []*Tool {
	tools := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}

	return tools
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Execute runs a tool by name. The result is always a JSON document: either
// the tool's output or a failure envelope. Agent callers never see a raw Go
// error out of this method.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) json.RawMessage {
	tool, ok := r.tools[name]
	if !ok {
		return renderFailure(&mapi.APIError{
			Kind:    mapi.ErrorKindNotFound,
			Message: fmt.Sprintf("unknown tool %q", name),
		})
	}

	result, err := tool.Handler(ctx, args)
	if err != nil {
		return renderFailure(err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return renderFailure(fmt.Errorf("encoding tool result: %w", err))
	}

	return payload
}

// ToolFailure is the error half of a failure envelope, shaped so an agent can
// decide whether to retry, correct its arguments, or give up.
type ToolFailure struct {
	Kind       string             `json:"kind"`
	Status     int                `json:"status,omitempty"`
	Message    string             `json:"message"`
	RetryAfter int                `json:"retry_after_seconds,omitempty"`
	Errors     []mapi.ErrorObject `json:"errors,omitempty"`
}

type failureEnvelope struct {
	Error ToolFailure `json:"error"`
}

// renderFailure converts any error into a failure envelope, preserving the
// taxonomy fields when the error is a classified API error.
func renderFailure(err error) json.RawMessage {
	failure := ToolFailure{
		Kind:    string(mapi.ErrorKindGeneric),
		Message: err.Error(),
	}

	var apiErr *mapi.APIError
	if errors.As(err, &apiErr) {
		failure.Kind = string(apiErr.Kind)
		failure.Status = apiErr.Status
		failure.Message = apiErr.Message
		failure.RetryAfter = int(apiErr.RetryAfter / time.Second)
		failure.Errors = apiErr.Errors
	}

	payload, marshalErr := json.Marshal(failureEnvelope{Error: failure})
	if marshalErr != nil {
		return json.RawMessage(`{"error":{"kind":"generic","message":"failed to encode error"}}`)
	}

	return payload
}
