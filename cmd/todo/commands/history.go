// ABOUTME: CLI command to browse chat history
// ABOUTME: Lists conversations, or the messages of one conversation
package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "Show conversations or a conversation's messages",
		Long: `Without arguments, list your conversations, most recent first.
With a conversation id, show its messages oldest first.

Examples:
  todo history --user guest_42
  todo history 3 --limit 20 --user guest_42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum messages to show (default $TODO_HISTORY_LIMIT)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	var convID int64
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("conversation id must be a positive integer, got %q", args[0])
		}
		convID = id
	}
	if historyLimit < 0 {
		return fmt.Errorf("limit must be positive, got %d", historyLimit)
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

	out := cmd.OutOrStdout()

	if convID == 0 {
		convs, err := a.Chat.ListConversations(handle)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(out, convs)
		}
		if len(convs) == 0 {
			if !quiet {
				fmt.Fprintf(out, "No conversations found\n")
			}
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tUPDATED\tCREATED\n")
		fmt.Fprintf(w, "--\t-------\t-------\n")
		for _, c := range convs {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, formatTime(c.UpdatedAt), formatTime(c.CreatedAt))
		}
		return w.Flush()
	}

	conv, err := a.Chat.GetConversation(convID, handle)
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("conversation %d not found", convID)
	}

	limit := historyLimit
	if limit == 0 {
		limit = a.Config.HistoryLimit
	}
	messages, err := a.Chat.GetConversationHistory(convID, handle, limit)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(out, messages)
	}
	for _, m := range messages {
		fmt.Fprintf(out, "[%s] %s: %s\n", formatTime(m.CreatedAt), m.Role, m.Content)
	}
	return nil
}
