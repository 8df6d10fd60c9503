// ABOUTME: Macros pack: listing and triggering macros by ID or by name.
// ABOUTME: By-name triggering resolves against /v1/macros before triggering.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// MacrosPack creates the pack for ProPresenter macros.
func MacrosPack(api *propresenter.Client) *tools.Pack {
	h := &macroHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:macros",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_macros",
					Description:     "List all configured macros",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_macro",
					Description:          "Trigger a macro by its ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_macro_by_name",
					Description:          "Trigger a macro by its display name (case-insensitive exact match)",
					InputSchemaJSON:      `{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.TriggerByName,
			},
		},
	}
}

type macroHandlers struct {
	api *propresenter.Client
}

// macroRef is the id wrapper the macros endpoints return per entry.
type macroRef struct {
	ID struct {
		UUID  string `json:"uuid"`
		Name  string `json:"name"`
		Index int    `json:"index"`
	} `json:"id"`
}

func (h *macroHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/macros")
}

type macroIDInput struct {
	ID string `json:"id"`
}

func (h *macroHandlers) Trigger(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in macroIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/macros/"+url.PathEscape(in.ID)+"/trigger", nil)
}

type macroNameInput struct {
	Name string `json:"name"`
}

// TriggerByName resolves the macro list first and only calls the trigger
// endpoint when a match exists.
func (h *macroHandlers) TriggerByName(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in macroNameInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	listJSON, err := h.api.Get(ctx, "/v1/macros")
	if err != nil {
		return nil, err
	}

	var macros []macroRef
	if err := json.Unmarshal(listJSON, &macros); err != nil {
		return nil, fmt.Errorf("decoding macro list: %w", err)
	}

	for _, m := range macros {
		if strings.EqualFold(m.ID.Name, in.Name) {
			return h.api.Post(ctx, "/v1/macros/"+url.PathEscape(m.ID.UUID)+"/trigger", nil)
		}
	}

	return nil, fmt.Errorf("macro not found: %q", in.Name)
}
