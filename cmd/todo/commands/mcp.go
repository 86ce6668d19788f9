// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents manage tasks through the task tools via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/todo-agent/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the task tools (add_task, list_tasks, complete_task, delete_task,
update_task) as an MCP (Model Context Protocol) server over stdio, so
LLM agents like Claude can manage to-do lists directly.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  todo mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "todo": {
  #       "command": "todo",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("Todo Agent", versionInfo.Version)
	mcp.RegisterTools(server, a.Dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Todo MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := a.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		_ = a.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
