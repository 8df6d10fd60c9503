// ABOUTME: Clear pack: clearing individual layers and triggering clear groups.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// ClearPack creates the pack for clear layers and clear groups.
func ClearPack(api *propresenter.Client) *tools.Pack {
	h := &clearHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:clear",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:                 "clear_layer",
					Description:          "Clear a single output layer",
					InputSchemaJSON:      `{"type":"object","properties":{"layer":{"type":"string","enum":["audio","props","messages","announcements","slide","media","video_input"]}},"required":["layer"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.ClearLayer,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_clear_groups",
					Description:     "List the configured clear groups",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetGroups,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_clear_group",
					Description:          "Trigger a clear group by its ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.TriggerGroup,
			},
		},
	}
}

type clearHandlers struct {
	api *propresenter.Client
}

type clearLayerInput struct {
	Layer string `json:"layer"`
}

func (h *clearHandlers) ClearLayer(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in clearLayerInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Layer == "" {
		return nil, fmt.Errorf("layer is required")
	}

	return h.api.Put(ctx, "/v1/clear/layer/"+url.PathEscape(in.Layer), nil)
}

func (h *clearHandlers) GetGroups(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/clear/groups")
}

type clearGroupInput struct {
	ID string `json:"id"`
}

func (h *clearHandlers) TriggerGroup(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in clearGroupInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/clear/group/"+url.PathEscape(in.ID)+"/trigger", nil)
}
