// ABOUTME: Sync commands for Charm cloud backup
// ABOUTME: Provides status, now, push, and pull of a user's tasks and conversations
package commands

import (
	"context"
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/todo-agent/internal/app"
	"github.com/harper/todo-agent/internal/charm"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/util"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud backup",
		Long: `Manage backup of tasks and conversations to Charm cloud.

The local SQLite database stays the source of truth. "push" writes a
snapshot of the caller's tasks and conversations to Charm KV, which
authenticates with your SSH keys and syncs across linked devices.
"pull" compares the backup with local tasks and can restore missing ones.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())

	return cmd
}

func openCharm(a *app.App) (*charm.Client, error) {
	client, err := charm.NewClient(&charm.Config{
		Host:     a.Config.CharmHost,
		DBName:   a.Config.CharmDBName,
		AutoSync: a.Config.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			client, err := openCharm(a)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Check your SSH keys and CHARM_HOST")
				return nil
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "Charm ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", client.Config().Host)

			handle, err := currentUser(a.Config)
			if err != nil {
				return nil
			}
			userID, err := a.ResolveUser(handle)
			if err != nil {
				return err
			}
			st, err := charm.StatusFor(client, userID)
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				return printJSON(out, st)
			}
			fmt.Fprintf(out, "Backed up for user %d: %d task(s), %d conversation(s)\n", userID, st.Tasks, st.Conversations)
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			client, err := openCharm(a)
			if err != nil {
				return err
			}
			defer client.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			err = util.Retry(context.Background(), 2, time.Second, func(int) error {
				return client.Sync()
			})
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Back up the caller's tasks and conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			data, err := a.Store.Export(userID, a.Config.HistoryLimit)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			client, err := openCharm(a)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := charm.Push(client, data)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}

			if outputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d task(s) and %d conversation(s), pruned %d\n", res.Tasks, res.Conversations, res.Pruned)
			if !res.Synced && a.Config.AutoSync {
				fmt.Fprintln(cmd.OutOrStdout(), "Warning: cloud sync failed; run 'todo sync now' to retry")
			}
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	var (
		status  string
		restore bool
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Compare the caller's backed-up tasks with local ones",
		Long: `Read the caller's tasks back from Charm KV and report each one as
in-sync, changed, or missing locally. With --restore, missing tasks are
recreated in the local database under fresh ids.

Examples:
  todo sync pull --user 1
  todo sync pull --status pending --restore`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := models.ParseTaskFilter(status)
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

			client, err := openCharm(a)
			if err != nil {
				return err
			}
			defer client.Close()

			if client.AutoSync() {
				if err := client.Sync(); err != nil {
					log.Printf("Warning: charm sync failed, comparing against local replica: %v", err)
				}
			}

			backup, err := charm.Pull(client, userID, filter)
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}
			local, err := a.Store.Tasks().List(userID, models.FilterAll)
			if err != nil {
				return fmt.Errorf("failed to list local tasks: %w", err)
			}
			comparisons := charm.Compare(backup, local)

			restored := 0
			if restore {
				if restored, err = charm.Restore(a.Store.Tasks(), userID, comparisons); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				return printJSON(out, map[string]any{
					"user_id":  userID,
					"tasks":    comparisons,
					"restored": restored,
				})
			}

			if len(comparisons) == 0 {
				fmt.Fprintln(out, "No backed-up tasks found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tDONE\tSTATE\tTITLE\n")
			fmt.Fprintf(w, "--\t----\t-----\t-----\n")
			for _, c := range comparisons {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.Task.ID, checkbox(c.Task.Completed), c.State, truncate(c.Task.Title, 40))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if restore {
				fmt.Fprintf(out, "\nRestored %d task(s)\n", restored)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "all", "Filter: all, pending, completed")
	cmd.Flags().BoolVar(&restore, "restore", false, "Recreate backed-up tasks missing locally")

	return cmd
}
