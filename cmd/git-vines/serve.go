package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	vinesmcp "github.com/gorewood/git-vines/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run git-vines as a Model Context Protocol (MCP) server over stdio.

This exposes the commit graph as read-only MCP tools that any MCP-capable
agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "git-vines": {
        "command": "git-vines",
        "args": ["serve"]
      }
    }
  }

Available tools: graph, status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := vinesmcp.NewServer(buildVersion())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
