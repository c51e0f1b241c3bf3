package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/timetrac/timetrac/pkg/api"
)

func (c *Cli) startCmd() *cobra.Command {
	var req api.StartRequest

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer (stops any running one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, _, err := c.authedAPI(ctx)
			if err != nil {
				return err
			}

			entry, err := client.Start(ctx, req)
			if err != nil {
				return err
			}

			label := entry.Project
			if label == "" {
				label = "(no project)"
			}
			c.io.Printf("Started %s at %s\n", label, entry.StartAt.Local().Format("15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Project, "project", "p", "", "project label")
	cmd.Flags().StringVarP(&req.Note, "note", "n", "", "note")
	cmd.Flags().StringSliceVarP(&req.Tags, "tags", "t", nil, "tags")
	cmd.Flags().StringVarP(&req.Color, "color", "c", "", "hex color, e.g. #3b82f6")

	return cmd
}

func (c *Cli) stopCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, _, err := c.authedAPI(ctx)
			if err != nil {
				return err
			}

			entry, err := client.Stop(ctx, id)
			if err != nil {
				return err
			}

			label := entry.Project
			if label == "" {
				label = "(no project)"
			}
			dur := time.Duration(0)
			if entry.EndAt != nil {
				dur = entry.EndAt.Sub(entry.StartAt)
			}
			c.io.Printf("Stopped %s after %s\n", label, formatDuration(dur))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "stop a specific entry instead of the running one")

	return cmd
}

func (c *Cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, sess, err := c.authedAPI(ctx)
			if err != nil {
				return err
			}

			entries, err := client.List(ctx)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				if entry.Running() {
					label := entry.Project
					if label == "" {
						label = "(no project)"
					}
					c.io.Printf("%s: %s running for %s\n",
						sess.Email, label, formatDuration(time.Since(entry.StartAt)))
					return nil
				}
			}

			c.io.Println("No timer running.")
			return nil
		},
	}
}

func (c *Cli) listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, _, err := c.authedAPI(ctx)
			if err != nil {
				return err
			}

			entries, err := client.List(ctx)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				c.io.Println("No entries yet.")
				return nil
			}

			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			for _, entry := range entries {
				label := entry.Project
				if label == "" {
					label = "(no project)"
				}

				when := entry.StartAt.Local().Format("2006-01-02 15:04")
				if entry.Running() {
					c.io.Printf("%s  %-20s %s (running)\n",
						when, label, formatDuration(time.Since(entry.StartAt)))
					continue
				}
				c.io.Printf("%s  %-20s %s\n",
					when, label, formatDuration(entry.EndAt.Sub(entry.StartAt)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")

	return cmd
}
