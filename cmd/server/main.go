// ABOUTME: Standalone MCP server exposing the task tools over stdio
// ABOUTME: Loads configuration from the environment and serves until stdin closes
package main

import (
	"log"

	"github.com/harper/todo-agent/internal/app"
	"github.com/harper/todo-agent/internal/config"
	"github.com/harper/todo-agent/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	server := mcpserver.NewMCPServer("Todo Agent", "0.1.0")
	mcp.RegisterTools(server, a.Dispatcher)

	log.Println("Todo MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Printf("Server error: %v", err)
	}
}
