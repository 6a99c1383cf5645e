// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/notemd/notemd/internal/dispatch"
	"github.com/notemd/notemd/internal/issue"
	"github.com/notemd/notemd/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the notemd command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notemd",
		Short: "Run the notemd documentation scripts",
		Long: TitleStyle.Render("notemd") + SubtitleStyle.Render(" - Run the notemd documentation scripts") + `

notemd runs the PowerShell scripts installed in the scripts directory next
to the program. Each command maps to one script; the script's output goes
straight to your terminal and its exit status becomes notemd's.

` + SubtitleStyle.Render("Examples:") + `
  notemd process            Run Process-Documentation.ps1
  notemd generate           Run Generate-Documentation.ps1
  notemd clean              Run Clean-Documentation.ps1
  notemd list               Show where each script is expected
  notemd check              Verify PowerShell and the scripts are present`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.flags.verboseSet = cmd.Flags().Changed("verbose")
		},
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/notemd/config.cue)")
	pf.StringVar(&app.flags.root, "root", "", "installation root containing the scripts directory (default is the executable's directory)")
	pf.StringVar(&app.flags.interpreter, "interpreter", "", "PowerShell executable name or path (default \"pwsh\")")
	pf.BoolVar(&app.flags.dryRun, "dry-run", false, "print the interpreter command line instead of running it")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")

	for _, desc := range dispatch.Descriptors() {
		rootCmd.AddCommand(newScriptCommand(app, desc))
	}
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newCheckCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the notemd CLI and exits with the resulting status.
// This is called by main.main().
func Execute() {
	if code := execute(context.Background(), NewApp(Dependencies{}), os.Args[1:]); !code.IsSuccess() {
		os.Exit(int(code))
	}
}

// execute runs the command tree with args and returns the process exit code.
func execute(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		return types.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// handleError prints command errors. Service errors get their styled card
// and issue entry, silent exit errors print nothing, everything else goes
// through fang's default rendering.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr, string(a.colorScheme))
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
