// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notemd/notemd/internal/config"
	"github.com/notemd/notemd/pkg/types"

	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatCUE  = "cue"
	formatTOML = "toml"
)

// newConfigCommand creates the `notemd config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage notemd configuration",
		Long: `Manage notemd configuration.

Configuration is stored in:
  - Linux: ~/.config/notemd/config.cue
  - macOS: ~/Library/Application Support/notemd/config.cue
  - Windows: %APPDATA%\notemd\config.cue

Every key can be overridden with a NOTEMD_ environment variable
(NOTEMD_ROOT, NOTEMD_INTERPRETER, NOTEMD_UI_VERBOSE, ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return &ExitError{Code: types.ExitFailure, Err: err}
			}
			return showConfig(app, cfg, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", formatText, "output format (text, cue, toml)")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, format string) error {
	switch strings.ToLower(format) {
	case formatCUE:
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
		return nil
	case formatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
		return nil
	case formatText:
	default:
		return fmt.Errorf("unknown format %q (valid: %s, %s, %s)", format, formatText, formatCUE, formatTOML)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, err := config.FilePath(config.LoadOptions{ConfigFilePath: app.flags.configPath})
	if err != nil || cfgPath == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	}
	if root, err := config.InstallRoot(cfg); err == nil {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Installation root"), root)
	}
	fmt.Fprintln(w)

	root := cfg.Root
	if root == "" {
		root = SubtitleStyle.Render("(executable directory)")
	} else {
		root = valueStyle.Render(root)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("root"), root)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("interpreter"), valueStyle.Render(cfg.Interpreter))
	if len(cfg.InterpreterArgs) == 0 {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("interpreter_args"), SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("interpreter_args"), valueStyle.Render(strings.Join(cfg.InterpreterArgs, " ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(app *App) error {
	if app.flags.configPath != "" {
		fmt.Fprintf(app.stdout, "Config file: %s\n", app.flags.configPath)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
