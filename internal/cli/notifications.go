package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/ledger"
)

// NewNotificationsCommand creates the notifications command group.
func NewNotificationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Inspect and manage the notification ledger",
	}

	var kind string
	list := &cobra.Command{
		Use:           "list",
		Short:         "List notifications, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				events := app.Engine.Events()
				var entries []ledger.NotificationEvent
				if kind != "" {
					entries = events.ByKind(ledger.EventKind(kind))
				} else {
					entries = events.All()
				}
				if f.Format == "json" {
					return f.Success(entries)
				}
				for _, ev := range entries {
					marker := " "
					if !ev.Read {
						marker = "*"
					}
					fmt.Fprintf(f.Writer, "%s %s  %-8s  %s: %s\n",
						marker, ev.ID, ev.Kind, ev.Title, ev.Message)
				}
				fmt.Fprintf(f.Writer, "%d notifications, %d unread\n", len(entries), events.UnreadCount())
				return nil
			})
		},
	}
	list.Flags().StringVar(&kind, "kind", "", "filter by kind (success|error|warning|info|activity)")

	read := &cobra.Command{
		Use:           "read [notification-id]",
		Short:         "Mark one notification read, or all with --all",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if all {
					n := app.Engine.MarkAllNotificationsRead(ctx)
					return f.Success(fmt.Sprintf("%d notifications marked read", n))
				}
				if len(args) == 0 {
					return WrapExitError(ExitCommandError, "notification id or --all required", nil)
				}
				if !app.Engine.MarkNotificationRead(ctx, args[0]) {
					return WrapExitError(ExitFailure, fmt.Sprintf("notification %s not found", args[0]), nil)
				}
				return f.Success("marked read")
			})
		},
	}
	read.Flags().Bool("all", false, "mark every notification read")

	del := &cobra.Command{
		Use:           "delete <notification-id>",
		Short:         "Delete one notification",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if !app.Engine.DeleteNotification(ctx, args[0]) {
					return WrapExitError(ExitFailure, fmt.Sprintf("notification %s not found", args[0]), nil)
				}
				return f.Success("deleted")
			})
		},
	}

	clear := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every notification",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				app.Engine.ClearNotifications(ctx)
				return f.Success("notifications cleared")
			})
		},
	}

	cmd.AddCommand(list, read, del, clear)
	return cmd
}
