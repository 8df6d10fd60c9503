// ABOUTME: Dispatches tool calls to registered handlers.
// ABOUTME: Handles per-tool timeouts and converts handler errors into responses.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// ErrToolNotFound indicates the requested tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

// DefaultTimeout is the default timeout for tool execution. Tools wrap a
// single upstream HTTP call, so this only needs headroom over the client's
// own deadline.
const DefaultTimeout = 30 * time.Second

// Response is the outcome of one tool call. Exactly one of OutputJSON and
// Error is set: handler failures are results, not faults, because the
// assistant has to be able to relay them.
type Response struct {
	RequestID  string
	OutputJSON string
	Error      string
}

// Router dispatches tool calls against the registry.
type Router struct {
	registry *Registry
	logger   *slog.Logger
	timeout  time.Duration
}

// RouterConfig contains configuration options for the Router.
type RouterConfig struct {
	Registry *Registry
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewRouter creates a new Router with the given configuration.
func NewRouter(cfg RouterConfig) *Router {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Router{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// Dispatch runs the named tool with the given JSON input.
// Returns ErrToolNotFound if the tool is not registered and the context
// error if the deadline expires before the handler returns. Handler errors
// are reported inside the Response.
func (r *Router) Dispatch(ctx context.Context, toolName, inputJSON, requestID string) (*Response, error) {
	tool := r.registry.GetTool(toolName)
	if tool == nil {
		r.logger.Debug("tool not found in registry",
			"tool_name", toolName,
			"request_id", requestID,
		)
		return nil, ErrToolNotFound
	}

	timeout := r.timeout
	if tool.Definition.TimeoutSeconds > 0 {
		timeout = time.Duration(tool.Definition.TimeoutSeconds) * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("dispatching tool",
		"tool_name", toolName,
		"request_id", requestID,
	)

	result, err := tool.Handler(ctx, json.RawMessage(inputJSON))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		r.logger.Warn("tool error",
			"tool_name", toolName,
			"request_id", requestID,
			"error", err,
		)
		return &Response{RequestID: requestID, Error: err.Error()}, nil
	}

	r.logger.Debug("tool responded",
		"tool_name", toolName,
		"request_id", requestID,
	)
	return &Response{RequestID: requestID, OutputJSON: string(result)}, nil
}

// HasTool checks if a tool with the given name is registered.
func (r *Router) HasTool(toolName string) bool {
	return r.registry.GetTool(toolName) != nil
}

// GetToolDefinition returns the tool definition for a given tool name.
// Returns nil if the tool is not found.
func (r *Router) GetToolDefinition(toolName string) *ToolDefinition {
	tool := r.registry.GetTool(toolName)
	if tool == nil {
		return nil
	}
	return tool.Definition
}
