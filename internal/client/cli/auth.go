package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timetrac/timetrac/internal/client/session"
	"github.com/timetrac/timetrac/pkg/api"
)

func (c *Cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAuth(cmd.Context(), true)
		},
	}
}

func (c *Cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAuth(cmd.Context(), false)
		},
	}
}

func (c *Cli) runAuth(ctx context.Context, register bool) error {
	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	var resp *api.AuthResponse
	if register {
		resp, err = c.api().Register(ctx, email, password)
	} else {
		resp, err = c.api().Login(ctx, email, password)
	}
	if err != nil {
		return err
	}

	sess := &session.Session{
		Email:     resp.User.Email,
		UserID:    resp.User.ID,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Printf("Logged in as %s (session valid until %s)\n",
		sess.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))

	return nil
}

func (c *Cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := c.sessions.Get(ctx)
			if err != nil {
				if errors.Is(err, session.ErrNotLoggedIn) {
					c.io.Println("Not logged in.")
					return nil
				}
				return err
			}

			client := c.api()
			client.SetToken(sess.Token)

			// The local session is only dropped once the server confirms the
			// revocation; a token we failed to revoke must stay visible.
			if err := client.Logout(ctx); err != nil {
				return fmt.Errorf("server-side logout failed, session kept: %w", err)
			}

			if err := c.sessions.Delete(ctx); err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
				return fmt.Errorf("failed to remove session: %w", err)
			}

			c.io.Println("Logged out.")
			return nil
		},
	}
}
