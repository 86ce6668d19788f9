// ABOUTME: CLI command to send one chat turn to the model
// ABOUTME: The model manages tasks through the task tools on the caller's behalf
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	chatConversation int64
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Talk to the to-do assistant",
		Long: `Send one message to the to-do assistant.

The assistant can add, list, complete, delete, and update your tasks.
Requires OPENAI_API_KEY, or OPENROUTER_API_KEY as a fallback.

Examples:
  todo chat "remind me to buy milk" --user guest_42
  todo chat "mark it done" --conversation 3 --user guest_42`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().Int64VarP(&chatConversation, "conversation", "c", 0, "Conversation to continue (default: start a new one)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("message cannot be empty")
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

	agent, err := a.NewAgent()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reply, err := agent.Send(ctx, handle, chatConversation, message)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), reply)
	}

	if verbose {
		for _, call := range reply.ToolCalls {
			if call.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s failed: %s\n", call.Name, call.Error)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s ok\n", call.Name)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", reply.Response)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(conversation %d)\n", reply.ConversationID)
	}
	return nil
}
