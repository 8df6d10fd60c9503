// ABOUTME: Tests for the MCP stdio transport.
// ABOUTME: Drives the server with newline-delimited JSON-RPC and checks responses.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// runStdio feeds the given lines to ServeStdio and returns the decoded
// responses in order.
func runStdio(t *testing.T, server *Server, lines ...string) []JSONRPCResponse {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer

	if err := server.ServeStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("ServeStdio() error: %v", err)
	}

	var responses []JSONRPCResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var resp JSONRPCResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestStdioInitialize(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	responses := runStdio(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-11-25"}}`,
	)

	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}

	result, ok := responses[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T, want object", responses[0].Result)
	}
	if result["protocolVersion"] != "2025-11-25" {
		t.Errorf("protocolVersion = %v, want 2025-11-25", result["protocolVersion"])
	}
}

func TestStdioSessionFlow(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	responses := runStdio(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo-tool","arguments":{"k":"v"}}}`,
	)

	// The notification produces no response.
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(responses))
	}

	raw, _ := json.Marshal(responses[1].Result)
	var listResult MCPListToolsResult
	if err := json.Unmarshal(raw, &listResult); err != nil {
		t.Fatalf("decoding tools/list result: %v", err)
	}
	// Stdio runs with the default capabilities, so every tool is listed.
	if len(listResult.Tools) != 3 {
		t.Errorf("got %d tools, want 3", len(listResult.Tools))
	}

	raw, _ = json.Marshal(responses[2].Result)
	var callResult MCPCallToolResult
	if err := json.Unmarshal(raw, &callResult); err != nil {
		t.Fatalf("decoding tools/call result: %v", err)
	}
	if callResult.IsError {
		t.Error("IsError = true, want false")
	}
	if len(callResult.Content) != 1 || callResult.Content[0].Text != `{"k":"v"}` {
		t.Errorf("content = %+v, want echoed arguments", callResult.Content)
	}
}

func TestStdioHandlerFailure(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	responses := runStdio(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"failing-tool"}}`,
	)

	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("handler failures must not be protocol errors, got %v", responses[0].Error)
	}

	raw, _ := json.Marshal(responses[0].Result)
	var result MCPCallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if !result.IsError {
		t.Error("IsError = false, want true")
	}
}

func TestStdioMalformedInput(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	responses := runStdio(t, server,
		`this is not json`,
		`{"jsonrpc":"1.0","id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"no/such/method"}`,
	)

	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != JSONRPCParseError {
		t.Errorf("response 0 = %+v, want parse error", responses[0].Error)
	}
	if responses[1].Error == nil || responses[1].Error.Code != JSONRPCInvalidRequest {
		t.Errorf("response 1 = %+v, want invalid request", responses[1].Error)
	}
	if responses[2].Error == nil || responses[2].Error.Code != JSONRPCMethodNotFound {
		t.Errorf("response 2 = %+v, want method not found", responses[2].Error)
	}
}

func TestStdioOversizedLine(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	big := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo-tool","arguments":{"pad":"` +
		strings.Repeat("x", stdioMaxLineSize) + `"}}}`

	responses := runStdio(t, server,
		big,
		`{"jsonrpc":"2.0","id":2,"method":"initialize"}`,
	)

	// The oversized message is rejected and the transport keeps serving.
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != JSONRPCInvalidRequest {
		t.Errorf("response 0 = %+v, want invalid request", responses[0].Error)
	}
	if responses[1].Error != nil {
		t.Errorf("follow-up request failed: %v", responses[1].Error)
	}
	if _, ok := responses[1].Result.(map[string]any); !ok {
		t.Errorf("follow-up result type = %T, want object", responses[1].Result)
	}
}

func TestStdioSkipsBlankLines(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	responses := runStdio(t, server,
		``,
		`   `,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
	)

	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
}
