package cli

import (
	"errors"

	"upi-cli/internal/api"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Session commands",
	}
	cmd.AddCommand(newAuthWhoamiCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	return cmd
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := client.Me(cmd.Context())
			if err != nil {
				var apiErr *api.Error
				if errors.As(err, &apiErr) && apiErr.Status == 401 {
					return writeErr(cmd, errors.New("not logged in"))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": id})
		},
	}
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session and clear stored cookies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedOut": true}})
		},
	}
	return cmd
}
