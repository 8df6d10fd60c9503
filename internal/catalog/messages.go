// ABOUTME: Messages pack: showing and hiding overlay messages, with token substitution.
// ABOUTME: By-name showing resolves against /v1/messages before triggering.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// MessagesPack creates the pack for overlay messages.
func MessagesPack(api *propresenter.Client) *tools.Pack {
	h := &messageHandlers{api: api}
	return &tools.Pack{
		ID: "propresenter:messages",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "list_messages",
					Description:     "List all configured overlay messages",
					InputSchemaJSON: emptySchema,
				},
				Handler: h.List,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "show_message",
					Description:          "Show an overlay message by ID, optionally filling its text tokens",
					InputSchemaJSON:      messageTriggerSchema("id"),
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Show,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "show_message_by_name",
					Description:          "Show an overlay message by its display name (case-insensitive exact match)",
					InputSchemaJSON:      messageTriggerSchema("name"),
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.ShowByName,
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "hide_message",
					Description:          "Hide a visible overlay message by ID",
					InputSchemaJSON:      `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`,
					RequiredCapabilities: []string{CapabilityControl},
				},
				Handler: h.Hide,
			},
		},
	}
}

// messageTriggerSchema builds the schema for the show tools, which differ
// only in whether the message is addressed by id or by name.
func messageTriggerSchema(key string) string {
	return `{"type":"object","properties":{"` + key + `":{"type":"string"},` +
		`"tokens":{"type":"object","additionalProperties":{"type":"string"},"description":"token name to replacement text"}},` +
		`"required":["` + key + `"]}`
}

type messageHandlers struct {
	api *propresenter.Client
}

func (h *messageHandlers) List(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return h.api.Get(ctx, "/v1/messages")
}

type showMessageInput struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens"`
}

// tokenBody converts the tokens map into the array shape the trigger
// endpoint expects.
func tokenBody(tokens map[string]string) []map[string]any {
	body := make([]map[string]any, 0, len(tokens))
	for name, text := range tokens {
		body = append(body, map[string]any{
			"name": name,
			"text": map[string]string{"text": text},
		})
	}
	return body
}

func (h *messageHandlers) Show(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in showMessageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Post(ctx, "/v1/message/"+url.PathEscape(in.ID)+"/trigger", tokenBody(in.Tokens))
}

// messageRef is the id wrapper the messages endpoint returns per entry.
type messageRef struct {
	ID struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	} `json:"id"`
}

func (h *messageHandlers) ShowByName(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in showMessageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	listJSON, err := h.api.Get(ctx, "/v1/messages")
	if err != nil {
		return nil, err
	}

	var messages []messageRef
	if err := json.Unmarshal(listJSON, &messages); err != nil {
		return nil, fmt.Errorf("decoding message list: %w", err)
	}

	for _, m := range messages {
		if strings.EqualFold(m.ID.Name, in.Name) {
			return h.api.Post(ctx, "/v1/message/"+url.PathEscape(m.ID.UUID)+"/trigger", tokenBody(in.Tokens))
		}
	}

	return nil, fmt.Errorf("message not found: %q", in.Name)
}

type hideMessageInput struct {
	ID string `json:"id"`
}

func (h *messageHandlers) Hide(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in hideMessageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return h.api.Put(ctx, "/v1/message/"+url.PathEscape(in.ID)+"/clear", nil)
}
