// ABOUTME: CLI command to export a user's tasks and chat history
// ABOUTME: Writes YAML, JSON, or Markdown to stdout or a file
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/todo-agent/internal/storage/sqlite"
)

var (
	exportType   string
	exportOutput string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and chat history",
		Long: `Export the caller's tasks and conversations.

Formats: yaml (default), json, markdown.

Examples:
  todo export --user 1
  todo export --type markdown --output todo.md --user guest_42`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportType, "type", "t", "yaml", "Export format: yaml, json, markdown")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	write, err := sqlite.WriterFor(exportType)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	handle, err := currentUser(a.Config)
	if err != nil {
		return err
	}
	userID, err := a.ResolveUser(handle)
	if err != nil {
		return err
	}

	if exportOutput != "" {
		if err := a.Store.ExportToFile(userID, a.Config.HistoryLimit, exportType, exportOutput); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", exportOutput)
		}
		return nil
	}

	data, err := a.Store.Export(userID, a.Config.HistoryLimit)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return write(cmd.OutOrStdout(), data)
}
