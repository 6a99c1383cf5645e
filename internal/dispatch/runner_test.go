// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/notemd/notemd/internal/testutil"
	"github.com/notemd/notemd/pkg/types"
)

// writeScript writes body as the script of name under root.
func writeScript(t *testing.T, root string, name CommandName, body string) {
	t.Helper()

	desc, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	testutil.WriteScript(t, root, string(desc.Script), body)
}

func TestHostRunner_ExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}
	interp := testutil.WriteFakeInterpreter(t)

	tests := []struct {
		name string
		body string
		want types.ExitCode
	}{
		{"success", "exit 0\n", 0},
		{"failure", "exit 1\n", 1},
		{"custom code", "exit 42\n", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := filepath.Join(t.TempDir(), "Script.ps1")
			if err := os.WriteFile(script, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}

			res, err := HostRunner{}.Run(t.Context(), Invocation{
				Command: CommandProcess,
				Program: interp,
				Args:    []string{"-File", script},
				Stdout:  &bytes.Buffer{},
				Stderr:  &bytes.Buffer{},
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.ExitCode != tt.want || res.Signaled {
				t.Errorf("Run() = %+v, want exit code %d", res, tt.want)
			}
		})
	}
}

func TestHostRunner_MissingProgram(t *testing.T) {
	_, err := HostRunner{}.Run(t.Context(), Invocation{
		Command: CommandClean,
		Program: filepath.Join(t.TempDir(), "no-such-pwsh"),
		Args:    []string{"-File", "Clean-Documentation.ps1"},
	})
	if !errors.Is(err, ErrInterpreterNotFound) {
		t.Errorf("Run() error = %v, want ErrInterpreterNotFound", err)
	}
}

func TestHostRunner_Canceled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}
	interp := testutil.WriteFakeInterpreter(t)
	script := filepath.Join(t.TempDir(), "Slow.ps1")
	if err := os.WriteFile(script, []byte("sleep 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	res, err := HostRunner{}.Run(ctx, Invocation{
		Command: CommandGenerate,
		Program: interp,
		Args:    []string{"-File", script},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want context.DeadlineExceeded", err)
	}
	if !res.Signaled {
		t.Errorf("Run() result = %+v, want Signaled", res)
	}
}

func TestDispatch_HostRunnerEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}
	interp := testutil.WriteFakeInterpreter(t)
	root := t.TempDir()
	writeScript(t, root, CommandGenerate, `echo "generating in $NOTEMD_ROOT for $NOTEMD_COMMAND"`+"\n")
	writeScript(t, root, CommandClean, "echo cleaning >&2\nexit 3\n")

	var stdout, stderr bytes.Buffer
	d, err := New(Options{
		Root:        types.FilesystemPath(root),
		Interpreter: interp,
		Stdin:       strings.NewReader(""),
		Stdout:      &stdout,
		Stderr:      &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(t.Context(), CommandGenerate); err != nil {
		t.Fatalf("Dispatch(generate) error = %v", err)
	}
	if got, want := strings.TrimSpace(stdout.String()), "generating in "+d.Root()+" for generate"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	err = d.Dispatch(t.Context(), CommandClean)
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || execErr.ExitCode != 3 {
		t.Fatalf("Dispatch(clean) error = %v, want exit code 3", err)
	}
	if !strings.Contains(stderr.String(), "cleaning") {
		t.Errorf("stderr = %q, want script output", stderr.String())
	}
}

func TestInvocation_CommandLine(t *testing.T) {
	t.Parallel()

	inv := Invocation{
		Program: "/usr/bin/pwsh",
		Args:    []string{"-NoProfile", "-File", "/opt/my notes/scripts/Generate-Documentation.ps1"},
	}
	want := `/usr/bin/pwsh -NoProfile -File '/opt/my notes/scripts/Generate-Documentation.ps1'`
	if got := inv.CommandLine(); got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}
