package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the jscan MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("cluster_functions",
		mcp.WithDescription("Group JavaScript/TypeScript functions by structural similarity (pq-gram distance, average linkage). Functions differing only in names, literals or formatting end up in the same group."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Folder or file to analyze")),
		mcp.WithArray("extra_paths",
			mcp.WithStringItems(),
			mcp.Description("Additional folders or files analyzed together with path")),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Minimum similarity 0.0-1.0 for a group to be reported whole (default: 0.8)")),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of files to include")),
		mcp.WithArray("exclude",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of files or directories to exclude")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary lists groups by location; full returns the whole forest with code (default: summary)")),
	), h.HandleClusterFunctions)
}
