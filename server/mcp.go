package server

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"rxchat/tools"
)

// ServeMCP exposes the tool registry over MCP stdio so external agent
// hosts can call the pharmacy tools directly. The same registry
// instance backs HTTP and MCP, so cached results are shared. Blocks
// until stdin closes.
func ServeMCP(registry *tools.Registry, version string) error {
	srv := mcpserver.NewMCPServer("rxchat", version, mcpserver.WithToolCapabilities(false))

	for _, t := range registry.Tools() {
		tool := mcptypes.NewToolWithRawSchema(t.Name, t.Description, t.SchemaJSON())
		name := t.Name
		srv.AddTool(tool, func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			result := registry.Execute(ctx, name, req.GetArguments())
			return mcptypes.NewToolResultText(result), nil
		})
	}

	return mcpserver.ServeStdio(srv)
}
