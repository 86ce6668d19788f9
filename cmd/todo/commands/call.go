// ABOUTME: CLI command to invoke a task tool directly
// ABOUTME: Takes key=value arguments the way a model would pass parameters
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/todo-agent/internal/tools"
)

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool> [key=value...]",
		Short: "Invoke a task tool directly",
		Long: fmt.Sprintf(`Invoke one of the task tools with key=value parameters.

Available tools: %s

user_id defaults to --user (or $TODO_USER) when not passed explicitly.

Examples:
  todo call add_task title="Buy milk" --user guest_42
  todo call update_task task_id=5 new_title=X --user 1
  todo call delete_task title=milk --user 1`, strings.Join(toolNames(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: runCall,
	}

	return cmd
}

func toolNames() []string {
	defs := tools.Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}

func runCall(cmd *cobra.Command, args []string) error {
	params, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := params["user_id"]; !ok {
		handle, err := currentUser(a.Config)
		if err != nil {
			return err
		}
		params["user_id"] = handle
	}

	result, err := a.Dispatcher.Call(args[0], params)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return printJSON(cmd.OutOrStdout(), result)
}
