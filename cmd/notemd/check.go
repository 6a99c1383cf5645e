// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/notemd/notemd/pkg/types"

	"github.com/spf13/cobra"
)

// newCheckCommand creates `notemd check`, a preflight for the interpreter
// and every script.
func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that PowerShell and every script are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cfg, err := app.newDispatcher(cmd.Context())
			if err != nil {
				return &ExitError{Code: types.ExitFailure, Err: err}
			}

			failed := 0
			for _, r := range d.Check() {
				fmt.Fprintf(app.stdout, "%s %-11s %s\n", checkMark(r.Err == nil), r.Name, r.Target)
				if r.Err != nil {
					failed++
					fmt.Fprintf(app.stdout, "    %s\n", formatErrorForDisplay(r.Err, cfg.UI.Verbose))
				}
			}

			if failed > 0 {
				fmt.Fprintf(app.stdout, "\n%s\n", ErrorStyle.Render(fmt.Sprintf("%d check(s) failed", failed)))
				return &ExitError{Code: types.ExitFailure}
			}
			fmt.Fprintf(app.stdout, "\n%s\n", SuccessStyle.Render("All checks passed"))
			return nil
		},
	}
}
