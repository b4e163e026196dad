package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"upi-cli/internal/model"
	"upi-cli/internal/store"
	"upi-cli/internal/tui"
	"upi-cli/internal/wizard"

	"github.com/spf13/cobra"
)

func newApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to the international program",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `upi apply` opens the interactive wizard, resuming any
			// autosaved draft.
			return runApplyTUI(app)
		},
	}
	cmd.AddCommand(newApplyValidateCmd(app))
	cmd.AddCommand(newApplySubmitCmd(app))
	cmd.AddCommand(newApplyDiscardCmd(app))
	return cmd
}

func runApplyTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	client, err := apiClient(app)
	if err != nil {
		return err
	}
	return tui.RunWizard(tui.Options{
		Client:     client,
		State:      store.StateStore{Dir: cfg.State.Dir},
		GatePolicy: gatePolicy(cfg),
		DateFormat: cfg.UI.DateFormat,
	})
}

func loadDraftFile(path string) (model.Draft, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Draft{}, err
	}
	var d model.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return model.Draft{}, fmt.Errorf("parse draft file: %w", err)
	}
	return d, nil
}

// validateDraft runs every step's checks the way the review step does.
func validateDraft(d model.Draft) (blocking, advisory []wizard.Problem) {
	for _, p := range wizard.ValidateStep(d, wizard.StepReview) {
		if p.Advisory {
			advisory = append(advisory, p)
		} else {
			blocking = append(blocking, p)
		}
	}
	return blocking, advisory
}

func newApplyValidateCmd(app *App) *cobra.Command {
	var draftFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an application draft without submitting",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraftFile(draftFile)
			if err != nil {
				return writeErr(cmd, err)
			}
			blocking, advisory := validateDraft(d)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"ok":       len(blocking) == 0,
				"blocking": problemList(blocking),
				"advisory": problemList(advisory),
			}})
		},
	}

	cmd.Flags().StringVar(&draftFile, "draft", "", "Draft JSON file")
	_ = cmd.MarkFlagRequired("draft")
	return cmd
}

func newApplySubmitCmd(app *App) *cobra.Command {
	var draftFile string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an application draft (one-shot, all-or-nothing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraftFile(draftFile)
			if err != nil {
				return writeErr(cmd, err)
			}
			blocking, advisory := validateDraft(d)
			if len(blocking) > 0 {
				msgs := make([]string, 0, len(blocking))
				for _, p := range blocking {
					msgs = append(msgs, p.Field+": "+p.Msg)
				}
				return writeErr(cmd, errors.New("draft is incomplete: "+strings.Join(msgs, "; ")))
			}

			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.RegisterApplication(cmd.Context(), d); err != nil {
				// Draft file is untouched on failure; fix and resubmit.
				return writeErr(cmd, err)
			}

			// A submitted draft no longer needs its autosave.
			if d.ID != "" {
				if st, err := stateStore(app); err == nil {
					_ = st.DeleteDraft(cmd.Context(), d.ID)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"submitted": true,
				"advisory":  problemList(advisory),
			}})
		},
	}

	cmd.Flags().StringVar(&draftFile, "draft", "", "Draft JSON file")
	_ = cmd.MarkFlagRequired("draft")
	return cmd
}

func newApplyDiscardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Discard the autosaved wizard draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := stateStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, ok, err := st.LoadDraft(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"discarded": false}})
			}
			if err := st.DeleteDraft(cmd.Context(), d.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"discarded": true, "id": d.ID}})
		},
	}
	return cmd
}

func problemList(ps []wizard.Problem) []map[string]string {
	out := make([]map[string]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, map[string]string{"field": p.Field, "msg": p.Msg})
	}
	return out
}
