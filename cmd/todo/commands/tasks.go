// ABOUTME: CLI command to list the caller's tasks
// ABOUTME: Shortcut for list_tasks with table or JSON output
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/todo-agent/internal/tools"
)

var (
	tasksStatus string
)

// NewTasksCmd creates the tasks command
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List your tasks",
		Long: `List the caller's tasks, optionally only pending or completed ones.

Examples:
  todo tasks --user 1
  todo tasks --status pending --user guest_42
  todo tasks --format json`,
		RunE: runTasks,
	}

	cmd.Flags().StringVarP(&tasksStatus, "status", "s", "all", "Filter: all, pending, completed")

	return cmd
}

func runTasks(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	handle, err := currentUser(a.Config)
	if err != nil {
		return err
	}

	result, err := a.Dispatcher.Call(tools.ListTasks, tools.Params{"user_id": handle, "status": tasksStatus})
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), result)
	}

	items, _ := result["tasks"].([]map[string]any)
	if len(items) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No tasks found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDONE\tTITLE\tDESCRIPTION\n")
	fmt.Fprintf(w, "--\t----\t-----\t-----------\n")
	for _, item := range items {
		done, _ := item["completed"].(bool)
		title, _ := item["title"].(string)
		desc, _ := item["description"].(string)
		fmt.Fprintf(w, "%v\t%s\t%s\t%s\n", item["id"], checkbox(done), truncate(title, 40), truncate(desc, 50))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d task(s)\n", len(items))
	}
	return nil
}
