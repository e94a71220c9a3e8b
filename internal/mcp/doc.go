// Package mcp implements the minimal capability protocol the assistant uses
// to reach live data before answering.
//
// # Model
//
// A Capability is a named unit of functionality exposed by a Server:
//
//   - Resource: no input, produces data (Fetch)
//   - Tool: declared JSON-Schema parameters, produces a result (Execute)
//
// A Server bundles capabilities under a globally unique name and owns their
// lifecycle (Start/Stop). A Client connects to one or more running servers
// and routes invocations by (server name, capability name). The client never
// inspects capability internals; resolution is name-exact and case-sensitive
// at both levels.
//
// # Contracts
//
//   - Capability names are unique per server; registering a duplicate name
//     fails with ErrDuplicateName rather than shadowing.
//   - Tool parameters are validated against the tool's schema before the
//     tool body runs; violations fail with ErrInvalidParams.
//   - Capability errors pass through the server and client unwrapped.
//   - A failed invocation never mutates the client's connected-server set.
//
// # Usage
//
//	srv := mcp.NewServer("database-server", "product catalog access", logger)
//	srv.AddTool(searchTool)
//	srv.Start()
//
//	client := mcp.NewClient(logger)
//	client.Connect(srv)
//	result, err := client.ExecuteTool(ctx, "database-server", "search-products", params)
package mcp
