// ABOUTME: Props pack: showing and clearing props.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// PropsPack creates the pack for props.
func PropsPack(api *propresenter.Client) *tools.Pack {
	h := &propHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:props",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_props",
					Description:     "List all props",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_prop",
					Description:          "Show a prop by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "clear_prop",
					Description:          "Clear a visible prop by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Clear,
			},
		},
	}
}

type propHandlers struct {
	api *propresenter.Client
}

type propIDInput struct {
	ID string `json:"id"`
}

func (h *propHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/props")
}

func (h *propHandlers) Trigger(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in propIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/prop/"+url.PathEscape(in.ID)+"/trigger", nil)
}

func (h *propHandlers) Clear(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in propIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Put(ctx, "/v1/prop/"+url.PathEscape(in.ID)+"/clear", nil)
}
