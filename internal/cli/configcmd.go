package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"api": map[string]any{
					"url":            cfg.API.URL,
					"timeoutSeconds": cfg.API.TimeoutSeconds,
				},
				"wizard": map[string]any{
					"gatePolicy": cfg.Wizard.GatePolicy,
				},
				"ui": map[string]any{
					"dateFormat": cfg.UI.DateFormat,
				},
				"state": map[string]any{
					"dir": cfg.State.Dir,
				},
			}})
		},
	}
	return cmd
}
