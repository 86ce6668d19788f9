// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: App setup, caller handle selection, argument parsing, and output helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/harper/todo-agent/internal/app"
	"github.com/harper/todo-agent/internal/config"
	"github.com/harper/todo-agent/internal/tools"
	"github.com/joho/godotenv"
)

// loadApp loads .env and configuration, then opens the database
func loadApp() (*app.App, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("Using %s database at %s", a.Store.DB().Driver(), a.Store.DB().Path())
	}
	return a, nil
}

// currentUser returns the --user flag, falling back to TODO_USER
func currentUser(cfg *config.Config) (string, error) {
	handle := strings.TrimSpace(userHandle)
	if handle == "" {
		handle = strings.TrimSpace(cfg.User)
	}
	if handle == "" {
		return "", fmt.Errorf("no user given: pass --user or set TODO_USER")
	}
	return handle, nil
}

// parseAssignments turns key=value arguments into tool parameters. Integer
// values become numbers; everything else stays a string.
func parseAssignments(args []string) (tools.Params, error) {
	params := tools.Params{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && key != "user_id" {
			params[key] = n
			continue
		}
		params[key] = value
	}
	return params, nil
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// checkbox renders a completion marker
func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
