// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/notemd/notemd/internal/dispatch"
	"github.com/notemd/notemd/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newScriptCommand creates the command that runs desc's script.
func newScriptCommand(app *App, desc dispatch.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:   string(desc.Name),
		Short: desc.Short,
		Long: desc.Short + `.

Runs ` + CmdStyle.Render(string(desc.Script)) + ` from the scripts directory of the
installation root with PowerShell. The exit status of the script becomes the
exit status of notemd.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runScript(cmd.Context(), desc.Name)
		},
	}
}

// newListCommand creates `notemd list`.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List commands and the scripts they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := app.newDispatcher(cmd.Context())
			if err != nil {
				return &ExitError{Code: types.ExitFailure, Err: err}
			}
			return listScripts(app, d)
		},
	}
}

func listScripts(app *App, d *dispatch.Dispatcher) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtitleStyle).
		Headers("COMMAND", "SCRIPT", "PATH", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	results := d.Check()
	for _, desc := range dispatch.Descriptors() {
		path, err := d.Resolve(desc.Name)
		if err != nil {
			return err
		}
		t.Row(string(desc.Name), string(desc.Script), path, scriptStatus(results, desc.Name))
	}

	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Installation root: ")+d.Root())
	fmt.Fprintln(app.stdout, t.Render())
	return nil
}

// scriptStatus describes the check result for name.
func scriptStatus(results []dispatch.CheckResult, name dispatch.CommandName) string {
	for _, r := range results {
		if r.Name != string(name) {
			continue
		}
		var notFound *dispatch.ScriptNotFoundError
		switch {
		case r.Err == nil:
			return SuccessStyle.Render("present")
		case errors.As(r.Err, &notFound) && notFound.IsDir:
			return ErrorStyle.Render("directory")
		case errors.As(r.Err, &notFound):
			return ErrorStyle.Render("missing")
		default:
			return WarningStyle.Render("unreadable")
		}
	}
	return ""
}
