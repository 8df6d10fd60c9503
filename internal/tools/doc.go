// Package tools provides the tool table the MCP server serves from.
//
// # Overview
//
// A Tool is a named, schema-described operation with an in-process Handler.
// Related tools are grouped into Packs and registered as a unit at startup,
// so the full catalog is an explicit table built in code, not a side effect
// of init-time registration.
//
// # Components
//
//   - Registry: tracks packs and tools, filters by capability
//   - Router: dispatches a call to its handler with a deadline
//
// # Capabilities
//
// Tools that change what is on screen require the "control" capability;
// read-only tools require none. Which capabilities a caller holds is the
// transport's concern (see internal/mcp).
//
// # Dispatch
//
// The router resolves the tool, applies the tool's timeout (or the default),
// and runs the handler. A handler error becomes Response.Error rather than
// a dispatch failure: the caller is an assistant that needs the message.
package tools
