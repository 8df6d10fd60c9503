// ABOUTME: Audio pack: audio playlist playback and item navigation.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// AudioPack creates the pack for audio playlists.
func AudioPack(api *propresenter.Client) *tools.Pack {
	h := &audioHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:audio",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_audio_playlists",
					Description:     "List all audio playlists",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.ListPlaylists,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_audio_playlist",
					Description:     "Get the items of an audio playlist by ID",
					InputSchemaJSON: `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
				},
				Handler: h.GetPlaylist,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "trigger_audio_playlist",
					Description:          "Start playing an audio playlist by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.TriggerPlaylist,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "next_audio_item",
					Description:          "Play the next item in the focused audio playlist",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.NextItem,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "previous_audio_item",
					Description:          "Play the previous item in the focused audio playlist",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.PreviousItem,
			},
		},
	}
}

type audioHandlers struct {
	api *propresenter.Client
}

type audioPlaylistInput struct {
	ID string `json:"id"`
}

func (h *audioHandlers) ListPlaylists(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/audio/playlists")
}

func (h *audioHandlers) GetPlaylist(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in audioPlaylistInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Get(ctx, "/v1/audio/playlist/"+url.PathEscape(in.ID))
}

func (h *audioHandlers) TriggerPlaylist(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in audioPlaylistInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/audio/playlist/"+url.PathEscape(in.ID)+"/trigger", nil)
}

func (h *audioHandlers) NextItem(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/audio/playlist/focused/next/trigger", nil)
}

func (h *audioHandlers) PreviousItem(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/audio/playlist/focused/previous/trigger", nil)
}
