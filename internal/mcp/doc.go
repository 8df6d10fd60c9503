// Package mcp implements the Model Context Protocol server for the tool catalog.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package exposes the ProPresenter tool catalog to MCP hosts (Claude
// Desktop, Claude Code, other LLM clients) over two transports that share
// one JSON-RPC 2.0 method core:
//
//   - Streamable HTTP (spec 2025-11-25): POST /mcp for requests, DELETE
//     /mcp for session termination, Mcp-Session-Id header binding
//   - stdio: newline-delimited JSON-RPC on stdin/stdout, the transport MCP
//     hosts use when they launch the server themselves
//
// # Methods
//
// initialize, tools/list, tools/call. Tool handler failures come back as a
// tools/call result with isError set, because the calling assistant needs
// the message text; JSON-RPC errors are reserved for protocol problems.
//
// # Authentication
//
// The http transport optionally authenticates via an access token (URL path
// or query parameter, resolved through the TokenStore) or an HS256 JWT
// bearer header. The resolved capabilities filter tools/list and gate
// tools/call. The stdio transport trusts its process boundary and runs
// with the server's default capabilities.
//
// # Integration with Claude Desktop
//
// stdio launch:
//
//	{
//	  "mcpServers": {
//	    "propresenter": {
//	      "command": "propresenter-mcp",
//	      "args": ["serve"],
//	      "env": {"PROPRESENTER_HOST": "192.168.1.100"}
//	    }
//	  }
//	}
//
// or pointed at the http transport:
//
//	{
//	  "mcpServers": {
//	    "propresenter": {
//	      "url": "http://localhost:8085/mcp"
//	    }
//	  }
//	}
package mcp
