// Package auth provides inbound authentication for the MCP http transport.
//
// # Authentication Methods
//
// Two methods gate the http transport; the stdio transport trusts the
// process boundary and uses neither:
//
//   - JWT Bearer Tokens: clients send "Authorization: Bearer <jwt>". Tokens
//     are signed with HS256 using the configured jwt_secret, and the "sub"
//     claim names the capability the token grants (typically "control").
//
//   - Access Tokens: opaque tokens minted at runtime and carried in the MCP
//     URL path or a token query parameter. These live in the mcp package's
//     TokenStore; this package only handles JWTs.
//
// # Token Management
//
//	verifier, err := NewJWTVerifier(secret)
//	token, err := verifier.Generate(subject, 24*time.Hour)
//	subject, err := verifier.Verify(token)
//
// Generate backs the "token" subcommand so operators can mint credentials
// for MCP clients without a separate tool.
package auth
