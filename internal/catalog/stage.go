// ABOUTME: Stage pack: stage screen layouts and the stage message.
// ABOUTME: hide_stage_message uses DELETE; the API has no other way to clear it.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// StagePack creates the pack for stage screens and the stage message.
func StagePack(api *propresenter.Client) *tools.Pack {
	h := &stageHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:stage",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_stage_screens",
					Description:     "List the configured stage screens",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.ListScreens,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_stage_layouts",
					Description:     "List the available stage layouts",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.ListLayouts,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "set_stage_layout",
					Description:          "Assign a stage layout to a stage screen",
					InputSchemaJSON:      `{"type":"object","properties":{"screen_id":{"type":"string"},"layout_id":{"type":"string"}},"required":["screen_id","layout_id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.SetLayout,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_stage_message",
					Description:     "Get the currently displayed stage message",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetMessage,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "show_stage_message",
					Description:          "Show a message on the stage screens",
					InputSchemaJSON:      `{"type":"object","properties":{"message":{"type":"string"}},"required":["message"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.ShowMessage,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "hide_stage_message",
					Description:          "Hide the stage message",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.HideMessage,
			},
		},
	}
}

type stageHandlers struct {
	api *propresenter.Client
}

func (h *stageHandlers) ListScreens(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/stage/screens")
}

func (h *stageHandlers) ListLayouts(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/stage/layouts")
}

type setStageLayoutInput struct {
	ScreenID string `json:"screen_id"`
	LayoutID string `json:"layout_id"`
}

func (h *stageHandlers) SetLayout(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in setStageLayoutInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Put(ctx, "/v1/stage/screen/"+url.PathEscape(in.ScreenID)+"/layout/"+url.PathEscape(in.LayoutID), nil)
}

func (h *stageHandlers) GetMessage(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/stage/message")
}

type stageMessageInput struct {
	Message string `json:"message"`
}

func (h *stageHandlers) ShowMessage(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in stageMessageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	// The endpoint takes a bare JSON string as its body.
	return h.api.Put(ctx, "/v1/stage/message", in.Message)
}

func (h *stageHandlers) HideMessage(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Delete(ctx, "/v1/stage/message")
}
