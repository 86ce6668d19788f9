// ABOUTME: MCP tool handlers bridging tool calls to the task dispatcher
// ABOUTME: Caller errors become tool results; storage failures surface as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	tools ToolCaller
}

// Handler returns the MCP handler for the named tool
func (h *Handlers) Handler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.New().String()

		params := tools.Params{}
		for k, v := range request.GetArguments() {
			params[k] = v
		}

		result, err := h.tools.Call(name, params)
		if err != nil {
			if isCallerError(err) {
				log.Printf("[%s] %s rejected: %v", callID, name, err)
				return mcp.NewToolResultError(err.Error()), nil
			}
			log.Printf("[%s] %s failed: %v", callID, name, err)
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		responseJSON, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(responseJSON)), nil
	}
}

// isCallerError reports failures the model can correct by changing its arguments
func isCallerError(err error) bool {
	return errors.Is(err, models.ErrInvalidFormat) ||
		errors.Is(err, models.ErrUnauthorized) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrMissingIdentifier) ||
		errors.Is(err, models.ErrUnknownTool)
}
