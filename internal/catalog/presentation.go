// ABOUTME: Presentation pack: slide navigation and presentation triggering.
// ABOUTME: All slide movement goes through /v1/presentation endpoints.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// PresentationPack creates the pack for slide navigation and presentation control.
func PresentationPack(api *propresenter.Client) *tools.Pack {
	h := &presentationHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:presentation",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:                 "next_slide",
					Description:          "Advance the active presentation to the next slide",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.NextSlide,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "previous_slide",
					Description:          "Move the active presentation back one slide",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.PreviousSlide,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_slide_index",
					Description:     "Get the index of the currently active slide",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetSlideIndex,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_slide",
					Description:          "Trigger a specific slide of the active presentation by index",
					InputSchemaJSON:      `{"type":"object","properties":{"index":{"type":"integer","description":"0-based slide index"}},"required":["index"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.TriggerSlide,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_active_presentation",
					Description:     "Get details of the currently active presentation",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetActive,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_focused_presentation",
					Description:     "Get details of the currently focused presentation",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetFocused,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_presentation",
					Description:     "Get details of a presentation by UUID",
					InputSchemaJSON: `{"type":"object","properties":{"uuid":{"type":"string"}},"required":["uuid"]}`,
				},
				Handler: h.Get,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "focus_presentation",
					Description:          "Focus a presentation by UUID without triggering it",
					InputSchemaJSON:      `{"type":"object","properties":{"uuid":{"type":"string"}},"required":["uuid"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Focus,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_presentation",
					Description:          "Trigger the first slide of a presentation by UUID",
					InputSchemaJSON:      `{"type":"object","properties":{"uuid":{"type":"string"}},"required":["uuid"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
		},
	}
}

type presentationHandlers struct {
	api *propresenter.Client
}

func (h *presentationHandlers) NextSlide(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/presentation/slide_index/next", nil)
}

func (h *presentationHandlers) PreviousSlide(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/presentation/slide_index/previous", nil)
}

func (h *presentationHandlers) GetSlideIndex(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/presentation/slide_index")
}

type triggerSlideInput struct {
	Index int `json:"index"`
}

func (h *presentationHandlers) TriggerSlide(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in triggerSlideInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Index < 0 {
		return nil, fmt.Errorf("index must not be negative")
	}

	return h.api.Put(ctx, "/v1/presentation/active/"+strconv.Itoa(in.Index)+"/trigger", nil)
}

func (h *presentationHandlers) GetActive(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/presentation/active")
}

func (h *presentationHandlers) GetFocused(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/presentation/focused")
}

type presentationUUIDInput struct {
	UUID string `json:"uuid"`
}

func (h *presentationHandlers) Get(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in presentationUUIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Get(ctx, "/v1/presentation/"+url.PathEscape(in.UUID))
}

func (h *presentationHandlers) Focus(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in presentationUUIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Put(ctx, "/v1/presentation/"+url.PathEscape(in.UUID)+"/focus", nil)
}

func (h *presentationHandlers) Trigger(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in presentationUUIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/presentation/"+url.PathEscape(in.UUID)+"/trigger", nil)
}
