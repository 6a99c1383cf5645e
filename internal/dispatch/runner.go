// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"

	"github.com/notemd/notemd/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Invocation is a fully resolved interpreter call.
	Invocation struct {
		Command CommandName
		// Program is the interpreter path.
		Program string
		// Args are the interpreter arguments, ending with "-File <script>".
		Args []string
		// Script is the absolute script path (also the last element of Args).
		Script string
		// Dir is the working directory; empty means the caller's.
		Dir string
		// Env is the complete child environment.
		Env []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the outcome of a process that ran to completion.
	Result struct {
		ExitCode types.ExitCode
		Signaled bool
	}

	// Runner starts an Invocation and waits for it to finish.
	// A non-zero exit is reported through Result, not as an error; the error
	// is reserved for failures to start or wait for the process.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (Result, error)
	}

	// HostRunner runs invocations as local processes.
	HostRunner struct{}
)

// Argv returns the program followed by its arguments.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Program}, inv.Args...)
}

// CommandLine returns the invocation as a single shell-quoted line, suitable
// for copying into a terminal.
func (inv Invocation) CommandLine() string {
	argv := inv.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// Run executes the invocation and blocks until the process exits.
func (HostRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err == nil {
		return Result{}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{ExitCode: types.ExitFailure, Signaled: true},
			fmt.Errorf("%s interrupted: %w", inv.Command, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return Result{ExitCode: types.FromProcessExit(code), Signaled: code < 0}, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return Result{ExitCode: types.ExitFailure}, &InterpreterNotFoundError{Name: inv.Program}
	}

	return Result{ExitCode: types.ExitFailure}, fmt.Errorf("failed to start %s: %w", inv.Program, err)
}
