// ABOUTME: Timers pack: countdown timer control, individually and in bulk.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// TimersPack creates the pack for ProPresenter timers.
func TimersPack(api *propresenter.Client) *tools.Pack {
	h := &timerHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:timers",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_timers",
					Description:     "List all timers with their current state",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "get_timer",
					Description:     "Get the details of a timer by ID",
					InputSchemaJSON: `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
				},
				Handler: h.Get,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "start_timer",
					Description:          "Start a timer by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Start,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "stop_timer",
					Description:          "Stop a timer by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Stop,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "reset_timer",
					Description:          "Reset a timer by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Reset,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "set_timer",
					Description:          "Configure a timer as a countdown with the given duration in seconds",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"},"duration":{"type":"integer","description":"countdown duration in seconds"}},"required":["id","duration"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Set,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "start_all_timers",
					Description:          "Start all timers",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.StartAll,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "stop_all_timers",
					Description:          "Stop all timers",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.StopAll,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "reset_all_timers",
					Description:          "Reset all timers",
					InputSchemaJSON:      emptySchema,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.ResetAll,
			},
		},
	}
}

type timerHandlers struct {
	api *propresenter.Client
}

type timerIDInput struct {
	ID string `json:"id"`
}

func (h *timerHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/timers")
}

func (h *timerHandlers) Get(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in timerIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Get(ctx, "/v1/timer/"+url.PathEscape(in.ID))
}

func (h *timerHandlers) Start(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return h.operation(ctx, input, "start")
}

func (h *timerHandlers) Stop(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return h.operation(ctx, input, "stop")
}

func (h *timerHandlers) Reset(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return h.operation(ctx, input, "reset")
}

func (h *timerHandlers) operation(ctx context.Context, input json.RawMessage, op string) (json.RawMessage, error) {
	var in timerIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Put(ctx, "/v1/timer/"+url.PathEscape(in.ID)+"/"+op, nil)
}

type setTimerInput struct {
	ID       string `json:"id"`
	Duration int    `json:"duration"`
}

func (h *timerHandlers) Set(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in setTimerInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}

	body := map[string]any{
		"allows_overrun": false,
		"countdown": map[string]any{
			"duration": in.Duration,
		},
	}
	return h.api.Put(ctx, "/v1/timer/"+url.PathEscape(in.ID), body)
}

func (h *timerHandlers) StartAll(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/timers/start", nil)
}

func (h *timerHandlers) StopAll(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/timers/stop", nil)
}

func (h *timerHandlers) ResetAll(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Put(ctx, "/v1/timers/reset", nil)
}
