// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/notemd/notemd/internal/config"
	"github.com/notemd/notemd/internal/dispatch"
	"github.com/notemd/notemd/internal/issue"
	"github.com/notemd/notemd/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds
	// its dispatcher through it.
	App struct {
		Config config.Provider
		Runner dispatch.Runner

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags globalFlags
		// colorScheme is the glamour style for issue rendering, updated once
		// the configuration is loaded.
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Runner defaults to dispatch.HostRunner.
		Runner dispatch.Runner
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// globalFlags holds the persistent root flags.
	globalFlags struct {
		configPath  string
		root        string
		interpreter string
		dryRun      bool
		verbose     bool
		// verboseSet records whether --verbose was given explicitly, so
		// --verbose=false can override ui.verbose from the config.
		verboseSet bool
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Runner: deps.Runner,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,

		colorScheme: config.ColorSchemeAuto,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Runner == nil {
		app.Runner = dispatch.HostRunner{}
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads the configuration and applies root flag overrides on top.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		styled := fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.flags.verbose))
		return nil, newServiceError(err, issue.ConfigLoadFailedId, styled)
	}

	if a.flags.root != "" {
		cfg.Root = a.flags.root
	}
	if a.flags.interpreter != "" {
		cfg.Interpreter = a.flags.interpreter
	}
	if a.flags.verboseSet {
		cfg.UI.Verbose = a.flags.verbose
	}
	a.colorScheme = cfg.UI.ColorScheme

	return cfg, nil
}

// newLogger creates the stderr logger for cfg and installs it as the slog
// default so library code logging through slog shares its format and level.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := log.WarnLevel
	if cfg.UI.Verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))

	return logger
}

// newDispatcher builds a dispatcher from the effective configuration.
func (a *App) newDispatcher(ctx context.Context) (*dispatch.Dispatcher, *config.Config, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger := a.newLogger(cfg)

	root, err := config.InstallRoot(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("resolved installation root", "root", root)

	d, err := dispatch.New(dispatch.Options{
		Root:            types.FilesystemPath(root),
		Interpreter:     cfg.Interpreter,
		InterpreterArgs: cfg.InterpreterArgs,
		DryRun:          a.flags.dryRun,
		Stdin:           a.stdin,
		Stdout:          a.stdout,
		Stderr:          a.stderr,
		Runner:          a.Runner,
		Logger:          logger,
	})
	if err != nil {
		return nil, nil, err
	}

	return d, cfg, nil
}

// runScript dispatches name and converts failures into an *ExitError whose
// code is the script's exit status, or 1 for anything else.
func (a *App) runScript(ctx context.Context, name dispatch.CommandName) error {
	d, cfg, err := a.newDispatcher(ctx)
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	err = d.Dispatch(ctx, name)
	if err == nil {
		return nil
	}

	err = wrapDispatchError(name, err)
	issueID, styled := classifyExecutionError(err, cfg.UI.Verbose)
	svcErr := newServiceError(err, issueID, styled)

	return &ExitError{Code: exitCodeFor(err), Err: svcErr}
}
