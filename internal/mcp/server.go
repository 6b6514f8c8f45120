// Package mcp provides a Model Context Protocol server for git-vines.
// It exposes the commit graph and repository state as read-only MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all git-vines tools registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "git-vines",
		Version: version,
	}, nil)
	registerTools(server)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all git-vines tools to the server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph",
		Description: "Render the commit history of a repository as a text vine graph: one row per commit with hash, date, decorations and subject, plus connector rows for branches and merges.",
		Annotations: readOnlyAnnotations(),
	}, handleGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show repository state used to decorate the graph: HEAD, its labels, the control directory, the operation in progress and working-tree status marks.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus)
}
