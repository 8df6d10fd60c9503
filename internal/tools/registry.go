// ABOUTME: Thread-safe registry for in-process tool packs.
// ABOUTME: Manages pack registration, tool lookup, and capability-based filtering.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// Handler executes one tool call. Input is the raw JSON arguments object;
// the returned JSON is handed back to the caller unchanged.
type Handler func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// ToolDefinition describes a tool to MCP clients.
type ToolDefinition struct {
	Name        string
	Description string
	// InputSchemaJSON is a JSON Schema object describing the arguments.
	InputSchemaJSON string
	// RequiredCapabilities must all be held by the caller. Empty means
	// the tool is available to everyone.
	RequiredCapabilities []string
	// TimeoutSeconds overrides the router's default dispatch timeout.
	TimeoutSeconds int
}

// Tool pairs a definition with its handler.
type Tool struct {
	Definition *ToolDefinition
	Handler    Handler
}

// Pack is a named group of related tools, registered as a unit.
type Pack struct {
	ID    string
	Tools []*Tool
}

// entry tracks a registered tool with its owning pack ID.
type entry struct {
	tool   *Tool
	packID string
}

// Registry maintains the set of registered packs and their tools.
// Tool names are globally unique across packs.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*entry
	packs  map[string][]string // pack ID -> tool names
	logger *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*entry),
		packs:  make(map[string][]string),
		logger: logger,
	}
}

// RegisterPack validates and stores a pack and its tools.
// Returns ErrToolCollision if any tool name is already registered.
func (r *Registry) RegisterPack(pack *Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range pack.Tools {
		name := tool.Definition.Name
		if existing, exists := r.tools[name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'",
				ErrToolCollision, name, existing.packID)
		}
	}

	names := make([]string, 0, len(pack.Tools))
	for _, tool := range pack.Tools {
		r.tools[tool.Definition.Name] = &entry{tool: tool, packID: pack.ID}
		names = append(names, tool.Definition.Name)
	}
	r.packs[pack.ID] = names

	r.logger.Info("pack registered",
		"pack_id", pack.ID,
		"tool_count", len(pack.Tools),
		"total_tools", len(r.tools),
	)

	return nil
}

// GetTool returns a tool by name, or nil if not found.
func (r *Registry) GetTool(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.tools[name]; ok {
		return e.tool
	}
	return nil
}

// GetAllTools returns the definitions of all registered tools.
func (r *Registry) GetAllTools() []*ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*ToolDefinition, 0, len(r.tools))
	for _, e := range r.tools {
		defs = append(defs, e.tool.Definition)
	}
	return defs
}

// GetToolsForCapabilities returns tools where the caller has ALL required
// capabilities. Tools with no required capabilities are always included.
func (r *Registry) GetToolsForCapabilities(caps []string) []*ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capSet := make(map[string]struct{}, len(caps))
	for _, cap := range caps {
		capSet[cap] = struct{}{}
	}

	var result []*ToolDefinition
	for _, e := range r.tools {
		if hasAllCapabilities(e.tool.Definition.RequiredCapabilities, capSet) {
			result = append(result, e.tool.Definition)
		}
	}
	return result
}

// hasAllCapabilities checks if the capability set contains all required capabilities.
func hasAllCapabilities(required []string, capSet map[string]struct{}) bool {
	for _, req := range required {
		if _, has := capSet[req]; !has {
			return false
		}
	}
	return true
}

// PackInfo contains public information about a registered pack.
type PackInfo struct {
	ID        string
	ToolNames []string
}

// ListPacks returns information about all registered packs.
func (r *Registry) ListPacks() []PackInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	packs := make([]PackInfo, 0, len(r.packs))
	for id, names := range r.packs {
		toolNames := make([]string, len(names))
		copy(toolNames, names)
		packs = append(packs, PackInfo{ID: id, ToolNames: toolNames})
	}
	return packs
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
