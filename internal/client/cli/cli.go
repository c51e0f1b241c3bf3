// Package cli implements the timetrac command-line client.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetrac/timetrac/internal/client/api"
	"github.com/timetrac/timetrac/internal/client/iocli"
	"github.com/timetrac/timetrac/internal/client/session"
	"github.com/timetrac/timetrac/internal/client/session/boltdb"
)

const defaultServer = "http://localhost:8080"

// Cli carries the shared state of all commands.
type Cli struct {
	io       iocli.IO
	sessions session.Store
	server   string
}

// New creates a Cli over the given IO and session store.
func New(io iocli.IO, sessions session.Store) *Cli {
	return &Cli{
		io:       io,
		sessions: sessions,
	}
}

// api builds a client for the configured server.
func (c *Cli) api() *api.Client {
	return api.NewClient(c.server)
}

// authedAPI builds a client carrying the stored session's credential.
func (c *Cli) authedAPI(ctx context.Context) (*api.Client, *session.Session, error) {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sess.Expired() {
		return nil, nil, fmt.Errorf("session expired, please login again")
	}

	client := c.api()
	client.SetToken(sess.Token)
	return client, sess, nil
}

// Execute wires the command tree and runs it.
func Execute(version string) {
	stdio := iocli.NewStdio()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dir := filepath.Join(home, ".timetrac")
	if err := os.MkdirAll(dir, 0700); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := boltdb.New(context.Background(), filepath.Join(dir, "session.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	c := New(stdio, store)

	rootCmd := &cobra.Command{
		Use:     "timetrac",
		Short:   "TimeTrac – track work sessions from the terminal",
		Version: version,
	}

	server := defaultServer
	if env := os.Getenv("TIMETRAC_SERVER"); env != "" {
		server = env
	}
	rootCmd.PersistentFlags().StringVar(&c.server, "server", server, "TimeTrac server URL")

	rootCmd.AddCommand(c.registerCmd())
	rootCmd.AddCommand(c.loginCmd())
	rootCmd.AddCommand(c.logoutCmd())
	rootCmd.AddCommand(c.startCmd())
	rootCmd.AddCommand(c.stopCmd())
	rootCmd.AddCommand(c.statusCmd())
	rootCmd.AddCommand(c.listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// formatDuration renders d like "2h05m" or "42s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
