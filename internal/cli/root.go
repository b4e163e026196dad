package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"upi-cli/internal/api"
	"upi-cli/internal/config"
	"upi-cli/internal/format"
	"upi-cli/internal/store"
	"upi-cli/internal/tui"
	"upi-cli/internal/wizard"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	StateDir   string
	PrettyJSON bool
	Format     string

	cfg    *config.Config
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "upi",
		Short:        "UPI platform CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  upi

  # Scriptable commands
  upi blogs list

  # Apply to the program from a prepared draft
  upi apply submit --draft draft.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "api", envOr("UPI_API_URL", ""), "API base URL (overrides config file)")
	cmd.PersistentFlags().StringVar(&app.StateDir, "state-dir", envOr("UPI_STATE_DIR", ""), "Local state dir for cookies and draft autosaves (overrides config file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("UPI_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newBlogsCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newAdminCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	client, err := apiClient(app)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Client:     client,
		State:      store.StateStore{Dir: cfg.State.Dir},
		GatePolicy: gatePolicy(cfg),
		DateFormat: cfg.UI.DateFormat,
	})
}

// loadConfig resolves configuration once per invocation; flags win
// over env and file values.
func loadConfig(app *App) (*config.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if app.BaseURL != "" {
		cfg.API.URL = app.BaseURL
	}
	if app.StateDir != "" {
		cfg.State.Dir = app.StateDir
	}
	app.cfg = &cfg
	return app.cfg, nil
}

func apiClient(app *App) (*api.Client, error) {
	if app.client != nil {
		return app.client, nil
	}
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	c, err := api.New(cfg.API.URL,
		api.WithCookieFile(cfg.CookiePath()),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}
	app.client = c
	return c, nil
}

func stateStore(app *App) (store.StateStore, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return store.StateStore{}, err
	}
	return store.StateStore{Dir: cfg.State.Dir}, nil
}

func gatePolicy(cfg *config.Config) wizard.GatePolicy {
	if cfg.Wizard.GatePolicy == "advisory" {
		return wizard.GateAdvisory
	}
	return wizard.GateBlock
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
