// ABOUTME: Playlists pack: library playlists and playlist item triggering.

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

// PlaylistsPack creates the pack for library playlists.
func PlaylistsPack(api *propresenter.Client) *tools.Pack {
	h := &playlistHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:playlists",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_playlists",
					Description:     "List all library playlists",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_playlist",
					Description:     "Get the items of a playlist by ID",
					InputSchemaJSON: `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
				},
				Handler: h.Get,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_active_playlist",
					Description:     "Get the currently active playlist",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.GetActive,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_playlist_item",
					Description:          "Trigger an item of a playlist by playlist ID and item index",
					InputSchemaJSON:      `{"type":"object","properties":{"playlist_id":{"type":"string"},"index":{"type":"integer","description":"0-based item index"}},"required":["playlist_id","index"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.TriggerItem,
			},
		},
	}
}

type playlistHandlers struct {
	api *propresenter.Client
}

func (h *playlistHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/playlists")
}

type playlistIDInput struct {
	ID string `json:"id"`
}

func (h *playlistHandlers) Get(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in playlistIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Get(ctx, "/v1/playlist/"+url.PathEscape(in.ID))
}

func (h *playlistHandlers) GetActive(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/playlist/active")
}

type triggerPlaylistItemInput struct {
	PlaylistID string `json:"playlist_id"`
	Index      int    `json:"index"`
}

func (h *playlistHandlers) TriggerItem(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in triggerPlaylistItemInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Index < 0 {
		return nil, fmt.Errorf("index must not be negative")
	}

	return h.api.Post(ctx, "/v1/playlist/"+url.PathEscape(in.PlaylistID)+"/"+strconv.Itoa(in.Index)+"/trigger", nil)
}
