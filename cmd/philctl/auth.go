package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phil-crm/phil-console/internal/auth"
	"github.com/phil-crm/phil-console/internal/sessions"
	"github.com/spf13/cobra"
)

const passwordEnv = "PHIL_PASSWORD"

func (c *cli) loginCmd() *cobra.Command {
	creds := auth.Credentials{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with a username and password. The password is read from the
PHIL_PASSWORD environment variable when the flag is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Password == "" {
				creds.Password = os.Getenv(passwordEnv)
			}
			user, session, err := c.app.auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s, token valid until %s\n", user.DisplayName(), session.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password (default $"+passwordEnv+")")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and remove it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.app.auth.Logout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.app.auth.Restore(cmd.Context())
			if !state.Authenticated {
				return fmt.Errorf("not logged in")
			}
			if state.User == nil {
				return fmt.Errorf("logged in, but the profile could not be loaded: %w", err)
			}
			w := newTable(cmd.OutOrStdout())
			w.row("USERNAME", "NAME", "EMAIL")
			w.row(state.User.Username, state.User.DisplayName(), state.User.Email)
			return w.Flush()
		},
	}
}

func (c *cli) tokenCmd() *cobra.Command {
	var asCookie bool
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a valid access token, refreshing it first when it expires soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := c.app.gateway.TokenSource(ctx).Token()
			if err != nil {
				return err
			}
			if !asCookie {
				fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
				return nil
			}
			consoleURL := c.app.config.Sessions.ConsoleURL
			if c.app.consoleJar == nil || consoleURL == nil {
				return fmt.Errorf("no console URL is configured")
			}
			c.app.sessionStore.WriteCookie(ctx, sessions.JarMirror{Jar: c.app.consoleJar, URL: consoleURL})
			for _, cookie := range c.app.consoleJar.Cookies(consoleURL) {
				fmt.Fprintln(cmd.OutOrStdout(), cookie.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCookie, "cookie", false, "print the route guard cookie for the console instead")
	return cmd
}
