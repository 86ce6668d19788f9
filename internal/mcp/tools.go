// ABOUTME: MCP tool registration for the todo agent server
// ABOUTME: Publishes the task tool definitions with their JSON schemas
package mcp

import (
	"github.com/harper/todo-agent/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ToolCaller executes a named task tool
type ToolCaller interface {
	Call(name string, params tools.Params) (tools.Result, error)
}

// RegisterTools registers every task tool with the server
func RegisterTools(server *mcpserver.MCPServer, caller ToolCaller) *Handlers {
	handlers := &Handlers{tools: caller}

	for _, def := range tools.Definitions() {
		server.AddTool(toolFromDefinition(def), handlers.Handler(def.Name))
	}

	return handlers
}

func toolFromDefinition(def tools.Definition) mcp.Tool {
	return mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: def.Properties,
			Required:   def.Required,
		},
	}
}
