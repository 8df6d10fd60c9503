// ABOUTME: Video inputs pack: listing and triggering configured video inputs.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// VideoInputsPack creates the pack for video inputs.
func VideoInputsPack(api *propresenter.Client) *tools.Pack {
	h := &videoInputHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:video_inputs",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_video_inputs",
					Description:     "List the configured video inputs",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_video_input",
					Description:          "Show a video input on the video input layer by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
		},
	}
}

type videoInputHandlers struct {
	api *propresenter.Client
}

func (h *videoInputHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/video_inputs")
}

type videoInputIDInput struct {
	ID string `json:"id"`
}

func (h *videoInputHandlers) Trigger(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in videoInputIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/video_inputs/"+url.PathEscape(in.ID)+"/trigger", nil)
}
