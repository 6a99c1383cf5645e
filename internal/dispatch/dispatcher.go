// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"

	"github.com/notemd/notemd/pkg/platform"
	"github.com/notemd/notemd/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

const (
	// DefaultInterpreter is the interpreter used when none is configured.
	DefaultInterpreter = "pwsh"

	// windowsPowerShell is tried on Windows when pwsh is not installed.
	windowsPowerShell = "powershell"

	// EnvRoot, EnvCommand and EnvRunID are exported to every script.
	EnvRoot    = "NOTEMD_ROOT"
	EnvCommand = "NOTEMD_COMMAND"
	EnvRunID   = "NOTEMD_RUN_ID"
)

type (
	// Options configures a Dispatcher. Zero-valued fields get defaults:
	// DefaultInterpreter, the process's standard streams, HostRunner and a
	// discarding logger. Root is required.
	Options struct {
		// Root is the installation root; scripts live in Root/scripts.
		Root types.FilesystemPath
		// Interpreter is a program name looked up on PATH, or a path.
		Interpreter string
		// InterpreterArgs are inserted before "-File".
		InterpreterArgs []string
		// DryRun prints the command line to Stdout instead of running it.
		DryRun bool

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		Runner Runner
		Logger *log.Logger
	}

	// Dispatcher resolves and runs the script behind a command.
	// It is immutable after New and safe for reuse.
	Dispatcher struct {
		root            string
		interpreter     string
		interpreterArgs []string
		dryRun          bool
		stdin           io.Reader
		stdout          io.Writer
		stderr          io.Writer
		runner          Runner
		logger          *log.Logger

		goos     string
		lookPath func(string) (string, error)
	}

	// CheckResult is the outcome of one preflight check.
	CheckResult struct {
		// Name is "interpreter" or a command name.
		Name string
		// Target is the resolved interpreter or script path.
		Target string
		Err    error
	}
)

// New creates a Dispatcher rooted at opts.Root. The root is made absolute but
// is not required to exist yet; a missing script is reported by Dispatch.
func New(opts Options) (*Dispatcher, error) {
	if err := opts.Root.Validate(); err != nil {
		return nil, fmt.Errorf("installation root: %w", err)
	}
	root, err := filepath.Abs(string(opts.Root))
	if err != nil {
		return nil, fmt.Errorf("installation root: %w", err)
	}

	d := &Dispatcher{
		root:            root,
		interpreter:     opts.Interpreter,
		interpreterArgs: slices.Clone(opts.InterpreterArgs),
		dryRun:          opts.DryRun,
		stdin:           opts.Stdin,
		stdout:          opts.Stdout,
		stderr:          opts.Stderr,
		runner:          opts.Runner,
		logger:          opts.Logger,
		goos:            goruntime.GOOS,
		lookPath:        exec.LookPath,
	}
	if d.interpreter == "" {
		d.interpreter = DefaultInterpreter
	}
	if d.stdin == nil {
		d.stdin = os.Stdin
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}
	if d.stderr == nil {
		d.stderr = os.Stderr
	}
	if d.runner == nil {
		d.runner = HostRunner{}
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}

	return d, nil
}

// Root returns the absolute installation root.
func (d *Dispatcher) Root() string { return d.root }

// ScriptsDir returns the absolute scripts directory.
func (d *Dispatcher) ScriptsDir() string { return filepath.Join(d.root, ScriptsDirName) }

// Resolve returns the absolute script path for name without touching the
// file system.
func (d *Dispatcher) Resolve(name CommandName) (string, error) {
	desc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return d.scriptPath(desc), nil
}

// Dispatch runs the script for name and waits for it to finish.
//
// It returns a *ScriptNotFoundError if the script is missing (before any
// process is started), an *InterpreterNotFoundError if the interpreter
// cannot be found, and an *ExecutionError if the script exits non-zero.
func (d *Dispatcher) Dispatch(ctx context.Context, name CommandName) error {
	desc, err := Lookup(name)
	if err != nil {
		return err
	}

	script := d.scriptPath(desc)
	if err := checkScript(desc.Name, script); err != nil {
		return err
	}

	program, err := d.ResolveInterpreter()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	inv := d.invocation(desc.Name, program, script, runID)
	logger := d.logger.With("command", desc.Name, "run_id", runID)
	logger.Debug("dispatching script", "script", script, "argv", inv.CommandLine())

	if d.dryRun {
		_, err := fmt.Fprintln(d.stdout, inv.CommandLine())
		return err
	}

	res, err := d.runner.Run(ctx, inv)
	if err != nil {
		return err
	}
	logger.Debug("script finished", "exit_code", res.ExitCode, "signaled", res.Signaled)

	if !res.ExitCode.IsSuccess() || res.Signaled {
		return &ExecutionError{
			Command:  desc.Name,
			Script:   script,
			ExitCode: res.ExitCode,
			Signaled: res.Signaled,
		}
	}
	return nil
}

// ResolveInterpreter returns the path of the configured interpreter. On
// Windows the default interpreter falls back to Windows PowerShell.
func (d *Dispatcher) ResolveInterpreter() (string, error) {
	candidates := []string{d.interpreter}
	if d.goos == platform.Windows && d.interpreter == DefaultInterpreter {
		candidates = append(candidates, windowsPowerShell)
	}

	for _, c := range candidates {
		path, err := d.lookPath(c)
		if err == nil {
			return path, nil
		}
		d.logger.Debug("interpreter candidate not usable", "candidate", c, "error", err)
	}

	return "", &InterpreterNotFoundError{Name: d.interpreter, Tried: candidates}
}

// Check verifies that the interpreter resolves and every script exists.
// The interpreter result comes first, followed by one result per command in
// table order.
func (d *Dispatcher) Check() []CheckResult {
	results := make([]CheckResult, 0, len(descriptors)+1)

	program, err := d.ResolveInterpreter()
	if program == "" {
		program = d.interpreter
	}
	results = append(results, CheckResult{Name: "interpreter", Target: program, Err: err})

	for _, desc := range descriptors {
		script := d.scriptPath(desc)
		results = append(results, CheckResult{
			Name:   string(desc.Name),
			Target: script,
			Err:    checkScript(desc.Name, script),
		})
	}

	return results
}

func (d *Dispatcher) scriptPath(desc Descriptor) string {
	return filepath.Join(d.root, ScriptsDirName, string(desc.Script))
}

func (d *Dispatcher) invocation(name CommandName, program, script, runID string) Invocation {
	args := make([]string, 0, len(d.interpreterArgs)+2)
	args = append(args, d.interpreterArgs...)
	args = append(args, "-File", script)

	env := append(os.Environ(),
		EnvRoot+"="+d.root,
		EnvCommand+"="+string(name),
		EnvRunID+"="+runID,
	)

	return Invocation{
		Command: name,
		Program: program,
		Args:    args,
		Script:  script,
		Env:     env,
		Stdin:   d.stdin,
		Stdout:  d.stdout,
		Stderr:  d.stderr,
	}
}

// checkScript verifies the script exists, is a regular file and can be opened.
func checkScript(name CommandName, path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ScriptNotFoundError{Command: name, Path: path}
	case err != nil:
		return fmt.Errorf("failed to stat script %s: %w", path, err)
	case info.IsDir():
		return &ScriptNotFoundError{Command: name, Path: path, IsDir: true}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script %s: %w", path, err)
	}
	return f.Close()
}
