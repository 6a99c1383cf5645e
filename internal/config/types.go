// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultInterpreter matches dispatch.DefaultInterpreter; it is repeated
	// here so config does not depend on the dispatcher.
	DefaultInterpreter = "pwsh"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInterpreter is returned when the interpreter setting is blank
	// or an interpreter argument is unusable.
	ErrInvalidInterpreter = errors.New("invalid interpreter")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	// The value doubles as the glamour style name used for issue rendering.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidInterpreterError is returned for a blank interpreter or a
	// blank/"-File" interpreter argument.
	InvalidInterpreterError struct {
		Value  string
		Reason string
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Root is the installation root containing scripts/.
		// Empty means the directory of the notemd executable.
		Root string `json:"root,omitempty" toml:"root" mapstructure:"root"`
		// Interpreter is the program that runs the scripts.
		Interpreter string `json:"interpreter,omitempty" toml:"interpreter" mapstructure:"interpreter"`
		// InterpreterArgs are inserted before "-File".
		InterpreterArgs []string `json:"interpreter_args,omitempty" toml:"interpreter_args" mapstructure:"interpreter_args"`
		// UI configures terminal output.
		UI UIConfig `json:"ui,omitempty" toml:"ui" mapstructure:"ui"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme,omitempty" toml:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose,omitempty" toml:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Root:            "",
		Interpreter:     DefaultInterpreter,
		InterpreterArgs: []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not auto, dark or light.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidInterpreterError) Error() string {
	return fmt.Sprintf("invalid interpreter setting %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidInterpreter for errors.Is() compatibility.
func (e *InvalidInterpreterError) Unwrap() error { return ErrInvalidInterpreter }

// Validate checks all fields and returns an *InvalidConfigError listing
// every problem found.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Interpreter) == "" {
		errs = append(errs, &InvalidInterpreterError{Value: c.Interpreter, Reason: "must be non-empty"})
	}
	for _, arg := range c.InterpreterArgs {
		switch {
		case strings.TrimSpace(arg) == "":
			errs = append(errs, &InvalidInterpreterError{Value: arg, Reason: "interpreter arguments must be non-empty"})
		case strings.EqualFold(arg, "-File"):
			errs = append(errs, &InvalidInterpreterError{Value: arg, Reason: "-File is added by notemd"})
		}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and every field error, so errors.Is
// matches both the config sentinel and the field sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
