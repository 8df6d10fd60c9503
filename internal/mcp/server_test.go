// ABOUTME: Tests for the MCP Streamable HTTP transport and JSON-RPC handling.
// ABOUTME: Validates sessions, auth handling, capability filtering, and error responses.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2389/propresenter-mcp/internal/tools"
)

// mockTokenVerifier implements auth.TokenVerifier for testing.
type mockTokenVerifier struct {
	subject string
	err     error
}

func (m *mockTokenVerifier) Verify(token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.subject, nil
}

// setupTestRegistry creates a registry with test tools.
func setupTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry(slog.Default())

	pack := &tools.Pack{
		ID: "test-pack",
		Tools: []*tools.Tool{
			{
				Definition: &tools.ToolDefinition{
					Name:            "echo-tool",
					Description:     "Echoes its input back",
					InputSchemaJSON: `{"type": "object"}`,
				},
				Handler: func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
					return input, nil
				},
			},
			{
				Definition: &tools.ToolDefinition{
					Name:                 "control-tool",
					Description:          "Requires the control capability",
					InputSchemaJSON:      `{"type": "object"}`,
					RequiredCapabilities: []string{"control"},
				},
				Handler: func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
					return json.RawMessage(`{"triggered":true}`), nil
				},
			},
			{
				Definition: &tools.ToolDefinition{
					Name:            "failing-tool",
					Description:     "Always fails",
					InputSchemaJSON: `{"type": "object"}`,
				},
				Handler: func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
					return nil, errors.New("Cannot connect to ProPresenter at http://localhost:50001")
				},
			},
		},
	}

	if err := registry.RegisterPack(pack); err != nil {
		t.Fatalf("failed to register test pack: %v", err)
	}

	return registry
}

// setupTestServer creates a server plus its mux with the given config overrides.
func setupTestServer(t *testing.T, mutate func(*Config)) (*Server, *http.ServeMux) {
	t.Helper()

	registry := setupTestRegistry(t)
	router := tools.NewRouter(tools.RouterConfig{
		Registry: registry,
		Logger:   slog.Default(),
		Timeout:  5 * time.Second,
	})

	cfg := Config{
		Registry:    registry,
		Router:      router,
		Logger:      slog.Default(),
		ServerName:  "test-server",
		DefaultCaps: []string{"control"},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	return server, mux
}

// postRPC sends one JSON-RPC request to the mux and returns the recorder.
func postRPC(t *testing.T, mux *http.ServeMux, target, sessionID string, rpc JSONRPCRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(rpc)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// initializeSession runs the initialize handshake and returns the session ID.
func initializeSession(t *testing.T, mux *http.ServeMux, target string) string {
	t.Helper()

	rr := postRPC(t, mux, target, "", JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("initialize status = %d, body: %s", rr.Code, rr.Body.String())
	}

	sessionID := rr.Header().Get("Mcp-Session-Id")
	if sessionID == "" {
		t.Fatal("initialize response missing Mcp-Session-Id header")
	}
	return sessionID
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) JSONRPCResponse {
	t.Helper()

	var resp JSONRPCResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestInitialize(t *testing.T) {
	_, mux := setupTestServer(t, nil)

	rr := postRPC(t, mux, "/mcp", "", JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("Mcp-Session-Id") == "" {
		t.Error("missing Mcp-Session-Id header")
	}

	resp := decodeResponse(t, rr)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T, want object", resp.Result)
	}
	if result["protocolVersion"] != "2025-11-25" {
		t.Errorf("protocolVersion = %v, want 2025-11-25", result["protocolVersion"])
	}
	serverInfo, _ := result["serverInfo"].(map[string]any)
	if serverInfo["name"] != "test-server" {
		t.Errorf("serverInfo.name = %v, want test-server", serverInfo["name"])
	}
}

func TestToolsList(t *testing.T) {
	t.Run("session capabilities filter the visible tools", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)
		sessionID := initializeSession(t, mux, "/mcp")

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`2`),
			Method:  "tools/list",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}

		resp := decodeResponse(t, rr)
		raw, _ := json.Marshal(resp.Result)
		var result MCPListToolsResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decoding result: %v", err)
		}

		// Default caps include control, so all three tools are visible.
		if len(result.Tools) != 3 {
			t.Errorf("got %d tools, want 3", len(result.Tools))
		}
	})

	t.Run("missing session is a 400", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)

		rr := postRPC(t, mux, "/mcp", "", JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`2`),
			Method:  "tools/list",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)

		rr := postRPC(t, mux, "/mcp", "no-such-session", JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`2`),
			Method:  "tools/list",
		})
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestToolsCall(t *testing.T) {
	t.Run("returns handler output as text content", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)
		sessionID := initializeSession(t, mux, "/mcp")

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`3`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"echo-tool","arguments":{"x":1}}`),
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}

		resp := decodeResponse(t, rr)
		if resp.Error != nil {
			t.Fatalf("unexpected error: %v", resp.Error)
		}

		raw, _ := json.Marshal(resp.Result)
		var result MCPCallToolResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if result.IsError {
			t.Error("IsError = true, want false")
		}
		if len(result.Content) != 1 || result.Content[0].Text != `{"x":1}` {
			t.Errorf("content = %+v, want echoed input", result.Content)
		}
	})

	t.Run("handler failure is a result with isError", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)
		sessionID := initializeSession(t, mux, "/mcp")

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`4`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"failing-tool"}`),
		})

		resp := decodeResponse(t, rr)
		if resp.Error != nil {
			t.Fatalf("handler failures must not be protocol errors, got %v", resp.Error)
		}

		raw, _ := json.Marshal(resp.Result)
		var result MCPCallToolResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if !result.IsError {
			t.Error("IsError = false, want true")
		}
		if len(result.Content) != 1 || !strings.Contains(result.Content[0].Text, "Cannot connect to ProPresenter") {
			t.Errorf("content = %+v, want the handler message", result.Content)
		}
	})

	t.Run("unknown tool is an invalid params error", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)
		sessionID := initializeSession(t, mux, "/mcp")

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`5`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"no-such-tool"}`),
		})

		resp := decodeResponse(t, rr)
		if resp.Error == nil {
			t.Fatal("expected a JSON-RPC error")
		}
		if resp.Error.Code != JSONRPCInvalidParams {
			t.Errorf("code = %d, want %d", resp.Error.Code, JSONRPCInvalidParams)
		}
	})

	t.Run("insufficient capabilities are rejected", func(t *testing.T) {
		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.DefaultCaps = nil
		})
		sessionID := initializeSession(t, mux, "/mcp")

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`6`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"control-tool"}`),
		})

		resp := decodeResponse(t, rr)
		if resp.Error == nil {
			t.Fatal("expected a JSON-RPC error")
		}
		if resp.Error.Code != JSONRPCInvalidRequest {
			t.Errorf("code = %d, want %d", resp.Error.Code, JSONRPCInvalidRequest)
		}
	})
}

func TestNotifications(t *testing.T) {
	_, mux := setupTestServer(t, nil)
	sessionID := initializeSession(t, mux, "/mcp")

	rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestSessionTermination(t *testing.T) {
	t.Run("DELETE removes the session", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)
		sessionID := initializeSession(t, mux, "/mcp")

		req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rr.Code)
		}

		// The session is gone afterwards.
		rr2 := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`7`),
			Method:  "tools/list",
		})
		if rr2.Code != http.StatusNotFound {
			t.Errorf("post-delete status = %d, want 404", rr2.Code)
		}
	})

	t.Run("DELETE without session header", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)

		req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("DELETE for unknown session", func(t *testing.T) {
		_, mux := setupTestServer(t, nil)

		req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", "no-such-session")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("only the session owner may terminate it", func(t *testing.T) {
		store := NewTokenStore()
		token := store.CreateToken([]string{"control"})

		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.TokenStore = store
		})
		sessionID := initializeSession(t, mux, "/mcp/"+token)

		// DELETE without the creating token is forbidden.
		req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rr.Code)
		}

		// DELETE with the creating token succeeds.
		req2 := httptest.NewRequest(http.MethodDelete, "/mcp/"+token, nil)
		req2.Header.Set("Mcp-Session-Id", sessionID)
		rr2 := httptest.NewRecorder()
		mux.ServeHTTP(rr2, req2)
		if rr2.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rr2.Code)
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Run("idle session expires on lookup", func(t *testing.T) {
		store := newSessionStore()
		store.ttl = time.Minute

		sess := store.create("2025-11-25", []string{"control"}, "")
		sess.lastSeen = time.Now().Add(-2 * time.Minute)

		if _, ok := store.get(sess.id); ok {
			t.Error("expired session should not be returned")
		}
	})

	t.Run("create prunes stale sessions", func(t *testing.T) {
		store := newSessionStore()
		store.ttl = time.Minute

		stale := store.create("2025-11-25", nil, "")
		stale.lastSeen = time.Now().Add(-2 * time.Minute)

		fresh := store.create("2025-11-25", nil, "")

		if _, ok := store.sessions[stale.id]; ok {
			t.Error("stale session should have been pruned on create")
		}
		if _, ok := store.get(fresh.id); !ok {
			t.Error("fresh session should survive the prune")
		}
	})

	t.Run("active session stays alive", func(t *testing.T) {
		store := newSessionStore()
		store.ttl = time.Minute

		sess := store.create("2025-11-25", nil, "")
		if _, ok := store.get(sess.id); !ok {
			t.Error("session should be retrievable immediately after create")
		}
		if _, ok := store.get(sess.id); !ok {
			t.Error("lookups should refresh the session, not expire it")
		}
	})
}

func TestProtocolVersionHeader(t *testing.T) {
	_, mux := setupTestServer(t, nil)
	sessionID := initializeSession(t, mux, "/mcp")

	body, _ := json.Marshal(JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`8`),
		Method:  "tools/list",
	})
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Mcp-Session-Id", sessionID)
	req.Header.Set("Mcp-Protocol-Version", "1999-01-01")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unsupported protocol version", rr.Code)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	_, mux := setupTestServer(t, nil)

	big := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"pad":%q}}`,
		strings.Repeat("x", MaxRequestBodySize))
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(big))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	resp := decodeResponse(t, rr)
	if resp.Error == nil || resp.Error.Code != JSONRPCInvalidRequest {
		t.Errorf("expected invalid request error for oversized body, got %+v", resp.Error)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, mux := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestAuth(t *testing.T) {
	t.Run("require_auth rejects unauthenticated initialize", func(t *testing.T) {
		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.RequireAuth = true
			cfg.TokenVerifier = &mockTokenVerifier{subject: "control"}
		})

		rr := postRPC(t, mux, "/mcp", "", JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`1`),
			Method:  "initialize",
		})

		resp := decodeResponse(t, rr)
		if resp.Error == nil {
			t.Fatal("expected a JSON-RPC error")
		}
		if !strings.Contains(resp.Error.Message, "authentication required") {
			t.Errorf("message = %q, want authentication required", resp.Error.Message)
		}
	})

	t.Run("bearer token subject becomes the capability", func(t *testing.T) {
		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.RequireAuth = true
			cfg.TokenVerifier = &mockTokenVerifier{subject: "control"}
			cfg.DefaultCaps = nil
		})

		body, _ := json.Marshal(JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`1`),
			Method:  "initialize",
		})
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer some-jwt")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		sessionID := rr.Header().Get("Mcp-Session-Id")
		if sessionID == "" {
			t.Fatalf("initialize failed: %s", rr.Body.String())
		}

		// The session can call control-gated tools.
		rr2 := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`2`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"control-tool"}`),
		})
		resp := decodeResponse(t, rr2)
		if resp.Error != nil {
			t.Fatalf("unexpected error: %v", resp.Error)
		}
	})

	t.Run("invalid bearer token is rejected even without require_auth", func(t *testing.T) {
		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.TokenVerifier = &mockTokenVerifier{err: errors.New("bad signature")}
		})

		body, _ := json.Marshal(JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`1`),
			Method:  "initialize",
		})
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer expired-jwt")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		resp := decodeResponse(t, rr)
		if resp.Error == nil {
			t.Fatal("expected a JSON-RPC error")
		}
		if !strings.Contains(resp.Error.Message, "invalid or expired token") {
			t.Errorf("message = %q, want invalid or expired token", resp.Error.Message)
		}
	})

	t.Run("path token grants its stored capabilities", func(t *testing.T) {
		store := NewTokenStore()
		token := store.CreateToken([]string{"control"})

		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.TokenStore = store
			cfg.DefaultCaps = nil
		})

		sessionID := initializeSession(t, mux, "/mcp/"+token)

		rr := postRPC(t, mux, "/mcp", sessionID, JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`2`),
			Method:  "tools/call",
			Params:  json.RawMessage(`{"name":"control-tool"}`),
		})
		resp := decodeResponse(t, rr)
		if resp.Error != nil {
			t.Fatalf("unexpected error: %v", resp.Error)
		}
	})

	t.Run("unknown path token is rejected", func(t *testing.T) {
		_, mux := setupTestServer(t, func(cfg *Config) {
			cfg.TokenStore = NewTokenStore()
		})

		rr := postRPC(t, mux, "/mcp/not-a-token", "", JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      json.RawMessage(`1`),
			Method:  "initialize",
		})

		resp := decodeResponse(t, rr)
		if resp.Error == nil {
			t.Fatal("expected a JSON-RPC error")
		}
	})
}
