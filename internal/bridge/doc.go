// Package bridge assembles the running service: it builds the ProPresenter
// client from configuration, registers the tool catalog, and serves the MCP
// protocol over the configured transport.
//
// Two transports are supported. In stdio mode the process speaks
// newline-delimited JSON-RPC on stdin/stdout, which is how desktop MCP
// clients launch local servers. In http mode the bridge runs an HTTP server
// exposing the streamable MCP endpoint at /mcp plus /health and
// /health/ready probes; readiness checks that the upstream ProPresenter
// instance answers a version request.
package bridge
