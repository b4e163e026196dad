package cli

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"upi-cli/internal/export"
	"upi-cli/internal/model"
	"upi-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands (require an admin session)",
	}
	cmd.AddCommand(newAdminAppsCmd(app))
	return cmd
}

func newAdminAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage program applications",
	}
	cmd.AddCommand(newAdminAppsListCmd(app))
	cmd.AddCommand(newAdminAppsStatusCmd(app))
	cmd.AddCommand(newAdminAppsDeleteCmd(app))
	cmd.AddCommand(newAdminAppsExportCmd(app))
	cmd.AddCommand(newAdminAppsDocCmd(app))
	return cmd
}

// matchApplication applies the admin table's client-side filters.
func matchApplication(a model.Application, search string, status model.ApplicationStatus) bool {
	if status != "" && a.Status != status {
		return false
	}
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(a.FullName), q) ||
		strings.Contains(strings.ToLower(a.Email), q) ||
		strings.Contains(strings.ToLower(a.Nationality), q)
}

func newAdminAppsListCmd(app *App) *cobra.Command {
	var search string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st model.ApplicationStatus
			if status != "" {
				var err error
				if st, err = statusutil.NormalizeApplicationStatus(status); err != nil {
					return writeErr(cmd, err)
				}
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			apps, err := client.ListApplications(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			out := make([]model.Application, 0, len(apps))
			for _, a := range apps {
				if matchApplication(a, search, st) {
					out = append(out, a)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"count": len(out), "total": len(apps)}})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by name, email or nationality")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending|reviewing|accepted|rejected)")
	return cmd
}

func newAdminAppsStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <app-id> <status>",
		Short: "Set an application's review status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := statusutil.NormalizeApplicationStatus(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.UpdateApplicationStatus(cmd.Context(), args[0], st); err != nil {
				return writeErr(cmd, err)
			}

			// Report the confirmed server state, not the requested one.
			apps, err := client.ListApplications(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, a := range apps {
				if a.ID == args[0] {
					return writeOut(cmd, app, map[string]any{"data": a})
				}
			}
			return writeErr(cmd, errNotFound("application", args[0]))
		},
	}
	return cmd
}

func newAdminAppsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <app-id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteApplication(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newAdminAppsExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all applications as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			apps, err := client.ListApplications(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			if out == "" {
				out = export.Filename(time.Now())
			}
			if out == "-" {
				return export.Applications(cmd.OutOrStdout(), apps)
			}

			f, err := os.Create(out)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := export.Applications(f, apps); err != nil {
				f.Close()
				return writeErr(cmd, err)
			}
			if err := f.Close(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"file": out, "rows": len(apps)}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: dated name in cwd; '-' for stdout)")
	return cmd
}

func newAdminAppsDocCmd(app *App) *cobra.Command {
	var open bool
	var download string

	cmd := &cobra.Command{
		Use:   "doc <app-id> <index>",
		Short: "Resolve, open, or download an application document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil || idx < 0 {
				return writeErr(cmd, errInvalidEnum("index", args[1], "non-negative integer"))
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			apps, err := client.ListApplications(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, a := range apps {
				if a.ID != args[0] {
					continue
				}
				if idx >= len(a.Documents) {
					return writeErr(cmd, errNotFound("document", args[1]))
				}
				doc := a.Documents[idx]
				resolved := client.ResolveDocumentURL(doc.URL)
				if download != "" {
					body, err := client.FetchDocument(cmd.Context(), doc.URL)
					if err != nil {
						return writeErr(cmd, err)
					}
					defer body.Close()
					f, err := os.Create(download)
					if err != nil {
						return writeErr(cmd, err)
					}
					defer f.Close()
					n, err := io.Copy(f, body)
					if err != nil {
						return writeErr(cmd, err)
					}
					return writeOut(cmd, app, map[string]any{"data": map[string]any{
						"name":  doc.Name,
						"saved": download,
						"bytes": n,
					}})
				}
				if open {
					if err := openURL(resolved); err != nil {
						return writeErr(cmd, err)
					}
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"name": doc.Name,
					"url":  resolved,
					"size": doc.Size,
				}})
			}
			return writeErr(cmd, errNotFound("application", args[0]))
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Open the document URL in the default browser")
	cmd.Flags().StringVar(&download, "download", "", "Save the document to a local file")
	return cmd
}

func openURL(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errors.New("empty url")
	}
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", u)
	case "windows":
		c = exec.Command("cmd", "/c", "start", "", u)
	default:
		c = exec.Command("xdg-open", u)
	}
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Start()
}
