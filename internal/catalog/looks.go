// ABOUTME: Looks pack: listing and triggering audience looks.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// LooksPack creates the pack for audience looks.
func LooksPack(api *propresenter.Client) *tools.Pack {
	h := &lookHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:looks",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_looks",
					Description:     "List the saved audience looks",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_current_look",
					Description:     "Get the currently live audience look",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetCurrent,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_look",
					Description:          "Make an audience look live by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
		},
	}
}

type lookHandlers struct {
	api *propresenter.Client
}

func (h *lookHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/looks")
}

func (h *lookHandlers) GetCurrent(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/look/current")
}

type lookIDInput struct {
	ID string `json:"id"`
}

func (h *lookHandlers) Trigger(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in lookIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/look/"+url.PathEscape(in.ID)+"/trigger", nil)
}
