// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/notemd/notemd/internal/dispatch"
	"github.com/notemd/notemd/internal/issue"
	"github.com/notemd/notemd/pkg/types"
)

// wrapDispatchError adds operation context and suggestions to dispatcher
// failures. Script exit failures and cancellation pass through unchanged:
// the script's own output already explains them.
func wrapDispatchError(name dispatch.CommandName, err error) error {
	op := "run " + string(name)

	var notFound *dispatch.ScriptNotFoundError
	var noInterp *dispatch.InterpreterNotFoundError
	switch {
	case errors.Is(err, dispatch.ErrExecutionFailed),
		errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &notFound):
		return issue.NewErrorContext().
			WithOperation(op).
			WithResource(notFound.Path).
			WithSuggestion("Check that notemd was installed together with its scripts directory").
			WithSuggestion("Pass --root or set NOTEMD_ROOT to the installation root").
			WithSuggestion("Run 'notemd list' to see where each script is expected").
			Wrap(err).
			BuildError()
	case errors.As(err, &noInterp):
		return issue.NewErrorContext().
			WithOperation("find interpreter").
			WithResource(noInterp.Name).
			WithSuggestion("Install PowerShell 7 (pwsh) and make sure it is on PATH").
			WithSuggestion("Pass --interpreter or set NOTEMD_INTERPRETER to its full path").
			Wrap(err).
			BuildError()
	case errors.Is(err, os.ErrPermission):
		return issue.NewErrorContext().
			WithOperation(op).
			WithSuggestion("Check the permissions of the scripts directory and the interpreter").
			Wrap(err).
			BuildError()
	default:
		return issue.WrapWithOperation(err, op)
	}
}

// classifyExecutionError maps dispatch failures to issue catalog IDs and
// returns a styled message for CLI rendering. A script that merely exited
// non-zero only gets the troubleshooting entry in verbose mode.
func classifyExecutionError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	issueID = issue.ScriptExecutionFailedId

	switch {
	case errors.Is(err, dispatch.ErrScriptNotFound):
		issueID = issue.ScriptNotFoundId
	case errors.Is(err, dispatch.ErrInterpreterNotFound):
		issueID = issue.InterpreterNotFoundId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.Is(err, context.Canceled):
		issueID = 0
	case errors.Is(err, dispatch.ErrExecutionFailed):
		if !verbose {
			issueID = 0
		}
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// exitCodeFor returns the exit status notemd itself should exit with: the
// script's status for a failed script, 1 for everything else.
func exitCodeFor(err error) types.ExitCode {
	var execErr *dispatch.ExecutionError
	if errors.As(err, &execErr) && !execErr.ExitCode.IsSuccess() {
		return execErr.ExitCode
	}
	return types.ExitFailure
}
