// ABOUTME: Announcements pack: control of the announcement layer timeline.

package catalog

import (
	"context"
	"encoding/json"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// AnnouncementsPack creates the pack for the announcement layer.
func AnnouncementsPack(api *propresenter.Client) *tools.Pack {
	h := &announcementHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:announcements",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_active_announcement",
					Description:     "Get details of the currently active announcement presentation",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetActive,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_announcement",
					Description:          "Retrigger the active announcement from its first slide",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Trigger,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "next_announcement_slide",
					Description:          "Advance the active announcement to the next slide",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.NextSlide,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "previous_announcement_slide",
					Description:          "Move the active announcement back one slide",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.PreviousSlide,
			},
		},
	}
}

type announcementHandlers struct {
	api *propresenter.Client
}

func (h *announcementHandlers) GetActive(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/announcement/active")
}

func (h *announcementHandlers) Trigger(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Post(ctx, "/v1/announcement/active/trigger", nil)
}

func (h *announcementHandlers) NextSlide(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/announcement/active/next/trigger", nil)
}

func (h *announcementHandlers) PreviousSlide(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/announcement/active/previous/trigger", nil)
}
