// ABOUTME: Status pack: version, layer/slide/screen status, capture control.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// StatusPack creates the pack for status queries and screen capture.
func StatusPack(api *propresenter.Client) *tools.Pack {
	h := &statusHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:status",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_version",
					Description:     "Get ProPresenter version and host information",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.Version,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_layer_status",
					Description:     "Get which output layers currently have content",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.Layers,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_slide_status",
					Description:     "Get the text of the current and next slide",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.Slide,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_screens_status",
					Description:     "Get the state of the configured output screens",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.Screens,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "find_my_mouse",
					Description:          "Flash the mouse cursor location on the ProPresenter machine",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.FindMyMouse,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "capture_status",
					Description:     "Get the current screen capture status",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.CaptureStatus,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "capture_operation",
					Description:          "Start or stop screen capture",
					InputSchemaJSON:      `{"type":"object","properties":{"operation":{"type":"string","enum":["start","stop"]}},"required":["operation"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.CaptureOperation,
			},
		},
	}
}

type statusHandlers struct {
	api *propresenter.Client
}

func (h *statusHandlers) Version(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/version")
}

func (h *statusHandlers) Layers(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/status/layers")
}

func (h *statusHandlers) Slide(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/status/slide")
}

func (h *statusHandlers) Screens(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/status/screens")
}

func (h *statusHandlers) FindMyMouse(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/find_my_mouse")
}

func (h *statusHandlers) CaptureStatus(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/capture/status")
}

type captureOperationInput struct {
	Operation string `json:"operation"`
}

func (h *statusHandlers) CaptureOperation(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in captureOperationInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Operation != "start" && in.Operation != "stop" {
		return nil, fmt.Errorf("operation must be \"start\" or \"stop\", got %q", in.Operation)
	}

	return h.api.Post(ctx, "/v1/capture/"+in.Operation, nil)
}
