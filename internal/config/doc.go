// Package config handles configuration loading for propresenter-mcp.
//
// # Overview
//
// Configuration is loaded from an optional YAML file with environment
// variable expansion. Defaults target a ProPresenter instance on
// localhost:50001, the port ProPresenter's network API listens on out of
// the box.
//
// # Environment Variables
//
// Two variables override the file unconditionally, matching how MCP hosts
// typically configure this server:
//
//	PROPRESENTER_HOST  upstream host or IP (default "localhost")
//	PROPRESENTER_PORT  upstream port (default 50001)
//
// Values inside the YAML file can also reference the environment:
//
//	auth:
//	  jwt_secret: "${PROPRESENTER_MCP_JWT_SECRET}"
//
// # Configuration Sections
//
// Upstream connection:
//
//	propresenter:
//	  host: "192.168.1.100"
//	  port: 50001
//	  timeout: "5s"
//
// Transport selection:
//
//	server:
//	  transport: "stdio"        # stdio or http
//	  http_addr: "localhost:8085"
//
// Inbound auth (http transport only):
//
//	auth:
//	  jwt_secret: "${PROPRESENTER_MCP_JWT_SECRET}"
//	  require_auth: false
//	  access_tokens:
//	    - token: "some-long-random-string"
//	      capabilities: ["control"]
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
