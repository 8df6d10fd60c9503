// ABOUTME: MCP stdio transport: newline-delimited JSON-RPC on stdin/stdout.
// ABOUTME: Runs one implicit trusted session with the server's default capabilities.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// stdioMaxLineSize bounds a single JSON-RPC message on stdin (1MB, matching
// the HTTP body cap).
const stdioMaxLineSize = MaxRequestBodySize

// ServeStdio runs the MCP server over newline-delimited JSON-RPC on the
// given reader and writer, typically stdin/stdout when launched by an MCP
// host. The local process boundary is the trust boundary, so no session or
// token handling applies; calls run with the server's default capabilities.
//
// Returns nil on EOF or context cancellation.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReaderSize(in, 64*1024)
	enc := json.NewEncoder(out)

	s.logger.Info("MCP stdio transport ready", "server", s.name)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, tooLong, err := readBoundedLine(reader, stdioMaxLineSize)

		switch {
		case tooLong:
			// An oversized message is rejected per-request, mirroring the
			// http transport's body cap; the transport keeps serving.
			s.logger.Warn("stdio message over size limit", "limit", stdioMaxLineSize)
			if encErr := enc.Encode(errorResponse(nil, JSONRPCInvalidRequest, "request body too large")); encErr != nil {
				return fmt.Errorf("writing response: %w", encErr)
			}
		default:
			if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
				resp := s.handleStdioMessage(ctx, []byte(trimmed))
				if resp != nil {
					if encErr := enc.Encode(resp); encErr != nil {
						return fmt.Errorf("writing response: %w", encErr)
					}
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.logger.Info("MCP stdio transport closed")
				return nil
			}
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
}

// readBoundedLine reads one newline-terminated message of at most max bytes.
// A longer line is drained to its newline and reported via tooLong so the
// caller can reject it and keep reading. err is io.EOF at end of input; a
// trailing unterminated line is still returned alongside it.
func readBoundedLine(r *bufio.Reader, max int) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > max {
				line = nil
				tooLong = true
			}
		}

		switch {
		case readErr == nil:
			return line, tooLong, nil
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		default:
			return line, tooLong, readErr
		}
	}
}

// handleStdioMessage processes one JSON-RPC message and returns the response,
// or nil for notifications.
func (s *Server) handleStdioMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(nil, JSONRPCParseError, "invalid JSON")
	}

	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version")
	}

	isNotification := len(req.ID) == 0 || string(req.ID) == "null"
	if isNotification {
		if !strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		return nil
	}

	s.logger.Debug("MCP stdio request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, s.initializeResult())
	case "tools/list":
		return resultResponse(req.ID, s.listTools(s.defaultCaps))
	case "tools/call":
		var params MCPCallToolParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return errorResponse(req.ID, JSONRPCInvalidParams, "invalid params")
			}
		}
		result, rpcErr := s.callTool(ctx, params, s.defaultCaps)
		if rpcErr != nil {
			return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
		}
		return resultResponse(req.ID, result)
	default:
		return errorResponse(req.ID, JSONRPCMethodNotFound, "method not found")
	}
}

func resultResponse(id json.RawMessage, result any) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	}
}
