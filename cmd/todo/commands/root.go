// ABOUTME: Root command and global flags for the todo CLI
// ABOUTME: Registers every subcommand and enforces flag combinations
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	userHandle   string
)

const banner = `
████████╗ ██████╗ ██████╗  ██████╗
╚══██╔══╝██╔═══██╗██╔══██╗██╔═══██╗
   ██║   ██║   ██║██║  ██║██║   ██║
   ██║   ██║   ██║██║  ██║██║   ██║
   ██║   ╚██████╔╝██████╔╝╚██████╔╝
   ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝ `

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Conversational to-do list with MCP task tools",
		Long: banner + `

Manage a to-do list by talking to a model, or let an MCP client drive
the same task tools directly. Tasks and chat history live in a local
SQLite database and can be backed up to Charm cloud.

Callers are identified by a handle: a positive numeric user id, or a
guest handle such as guest_42 that is provisioned on first write.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "json", "table":
			default:
				return fmt.Errorf("--format must be auto, json, or table, got %q", outputFormat)
			}
			if quiet {
				log.SetOutput(io.Discard)
			} else {
				log.SetOutput(os.Stderr)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, table")
	cmd.PersistentFlags().StringVarP(&userHandle, "user", "u", "", "Caller handle (default $TODO_USER)")

	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewCallCmd())
	cmd.AddCommand(NewTasksCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
