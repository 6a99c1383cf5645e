// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notemd/notemd/pkg/platform"

	"golang.org/x/exp/slices"
)

const (
	// CommandProcess runs the document processing script.
	CommandProcess CommandName = "process"
	// CommandGenerate runs the documentation generator script.
	CommandGenerate CommandName = "generate"
	// CommandClean runs the cleanup script.
	CommandClean CommandName = "clean"

	// ScriptsDirName is the directory under the installation root that holds
	// the bundled scripts.
	ScriptsDirName = "scripts"

	scriptExt = ".ps1"
)

var (
	// ErrInvalidCommandName is the sentinel error wrapped by InvalidCommandNameError.
	ErrInvalidCommandName = errors.New("invalid command name")
	// ErrInvalidScriptFile is the sentinel error wrapped by InvalidScriptFileError.
	ErrInvalidScriptFile = errors.New("invalid script file")
	// ErrUnknownCommand is returned when a command has no descriptor.
	ErrUnknownCommand = errors.New("unknown command")

	descriptors = []Descriptor{
		{
			Name:   CommandProcess,
			Script: "Process-Documentation.ps1",
			Short:  "Process notes into documentation sources",
		},
		{
			Name:   CommandGenerate,
			Script: "Generate-Documentation.ps1",
			Short:  "Generate documentation",
		},
		{
			Name:   CommandClean,
			Script: "Clean-Documentation.ps1",
			Short:  "Remove generated documentation",
		},
	}
)

type (
	// CommandName identifies one of the fixed notemd commands.
	CommandName string

	// InvalidCommandNameError is returned when a CommandName is not one of the
	// known commands. It wraps ErrInvalidCommandName for errors.Is() compatibility.
	InvalidCommandNameError struct {
		Value CommandName
	}

	// ScriptFile is the bare file name of a bundled script, relative to the
	// scripts directory. It must be a single path element ending in ".ps1".
	ScriptFile string

	// InvalidScriptFileError is returned when a ScriptFile is malformed.
	InvalidScriptFileError struct {
		Value  ScriptFile
		Reason string
	}

	// Descriptor maps a command to the script that implements it.
	Descriptor struct {
		Name   CommandName
		Script ScriptFile
		// Short is the one-line help text shown by the CLI.
		Short string
	}
)

func init() {
	if err := validateDescriptors(descriptors); err != nil {
		panic(fmt.Sprintf("dispatch: invalid command table: %v", err))
	}
}

// AllCommandNames returns the known command names in table order.
func AllCommandNames() []CommandName {
	names := make([]CommandName, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// Descriptors returns a copy of the command table.
func Descriptors() []Descriptor {
	return slices.Clone(descriptors)
}

// Lookup returns the descriptor for name.
func Lookup(name CommandName) (Descriptor, error) {
	idx := slices.IndexFunc(descriptors, func(d Descriptor) bool { return d.Name == name })
	if idx < 0 {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return descriptors[idx], nil
}

// String returns the string representation of the CommandName.
func (n CommandName) String() string { return string(n) }

// Validate returns an error if n is not a known command.
func (n CommandName) Validate() error {
	switch n {
	case CommandProcess, CommandGenerate, CommandClean:
		return nil
	default:
		return &InvalidCommandNameError{Value: n}
	}
}

// Error implements the error interface.
func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q (valid: %s, %s, %s)",
		e.Value, CommandProcess, CommandGenerate, CommandClean)
}

// Unwrap returns ErrInvalidCommandName for errors.Is() compatibility.
func (e *InvalidCommandNameError) Unwrap() error { return ErrInvalidCommandName }

// String returns the string representation of the ScriptFile.
func (f ScriptFile) String() string { return string(f) }

// Validate returns an error if f is not a single ".ps1" file name.
func (f ScriptFile) Validate() error {
	s := string(f)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidScriptFileError{Value: f, Reason: "must be non-empty"}
	case strings.ContainsAny(s, `/\`) || s != filepath.Base(s):
		return &InvalidScriptFileError{Value: f, Reason: "must not contain path separators"}
	case !strings.EqualFold(filepath.Ext(s), scriptExt) || len(s) == len(scriptExt):
		return &InvalidScriptFileError{Value: f, Reason: "must be a " + scriptExt + " file"}
	case platform.IsWindowsReservedName(s):
		return &InvalidScriptFileError{Value: f, Reason: "is a reserved file name on Windows"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidScriptFileError) Error() string {
	return fmt.Sprintf("invalid script file %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidScriptFile for errors.Is() compatibility.
func (e *InvalidScriptFileError) Unwrap() error { return ErrInvalidScriptFile }

// Validate checks both fields of the descriptor.
func (d Descriptor) Validate() error {
	return errors.Join(d.Name.Validate(), d.Script.Validate())
}

// validateDescriptors checks every entry and rejects duplicate names or
// scripts. Script names are compared case-insensitively because Windows and
// macOS file systems usually are.
func validateDescriptors(table []Descriptor) error {
	seenNames := make(map[CommandName]bool, len(table))
	seenScripts := make(map[string]CommandName, len(table))
	var errs []error

	for i, d := range table {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("descriptor %d: %w", i, err))
			continue
		}
		if seenNames[d.Name] {
			errs = append(errs, fmt.Errorf("descriptor %d: duplicate command %q", i, d.Name))
		}
		seenNames[d.Name] = true

		key := strings.ToLower(string(d.Script))
		if other, ok := seenScripts[key]; ok {
			errs = append(errs, fmt.Errorf("descriptor %d: script %q already used by %q", i, d.Script, other))
		}
		seenScripts[key] = d.Name
	}

	return errors.Join(errs...)
}
