// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notemd/notemd/pkg/types"
)

var (
	// ErrScriptNotFound is the sentinel error wrapped by ScriptNotFoundError.
	ErrScriptNotFound = errors.New("script not found")
	// ErrExecutionFailed is the sentinel error wrapped by ExecutionError.
	ErrExecutionFailed = errors.New("script execution failed")
	// ErrInterpreterNotFound is the sentinel error wrapped by InterpreterNotFoundError.
	ErrInterpreterNotFound = errors.New("interpreter not found")
)

type (
	// ScriptNotFoundError is returned when a command's script is absent from
	// the installation root. No process is started in that case.
	ScriptNotFoundError struct {
		Command CommandName
		Path    string
		// IsDir is set when the path exists but is a directory.
		IsDir bool
	}

	// ExecutionError is returned when the interpreter exits with a non-zero status.
	ExecutionError struct {
		Command  CommandName
		Script   string
		ExitCode types.ExitCode
		// Signaled is set when the child was terminated by a signal rather
		// than exiting on its own; ExitCode is then types.ExitFailure.
		Signaled bool
	}

	// InterpreterNotFoundError is returned when none of the interpreter
	// candidates can be found.
	InterpreterNotFoundError struct {
		Name  string
		Tried []string
	}
)

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	if e.IsDir {
		return fmt.Sprintf("script for %q is a directory: %s", e.Command, e.Path)
	}
	return fmt.Sprintf("script for %q not found: %s", e.Command, e.Path)
}

// Unwrap returns ErrScriptNotFound for errors.Is() compatibility.
func (e *ScriptNotFoundError) Unwrap() error { return ErrScriptNotFound }

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Signaled {
		return fmt.Sprintf("%s: script %s was terminated by a signal", e.Command, e.Script)
	}
	return fmt.Sprintf("%s: script %s exited with status %d", e.Command, e.Script, e.ExitCode)
}

// Unwrap returns ErrExecutionFailed for errors.Is() compatibility.
func (e *ExecutionError) Unwrap() error { return ErrExecutionFailed }

// Error implements the error interface.
func (e *InterpreterNotFoundError) Error() string {
	if len(e.Tried) > 1 {
		return fmt.Sprintf("interpreter %q not found (tried %s)", e.Name, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("interpreter %q not found", e.Name)
}

// Unwrap returns ErrInterpreterNotFound for errors.Is() compatibility.
func (e *InterpreterNotFoundError) Unwrap() error { return ErrInterpreterNotFound }
