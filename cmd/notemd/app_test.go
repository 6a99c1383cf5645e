// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/notemd/notemd/internal/config"
	"github.com/notemd/notemd/internal/dispatch"
	"github.com/notemd/notemd/internal/testutil"
	"github.com/notemd/notemd/pkg/types"
)

// These tests run the full command tree in process and share slog's default
// logger, so they are not parallel.

type recordingRunner struct {
	calls  []dispatch.Invocation
	result dispatch.Result
}

func (r *recordingRunner) Run(_ context.Context, inv dispatch.Invocation) (dispatch.Result, error) {
	r.calls = append(r.calls, inv)
	return r.result, nil
}

// dirProvider loads configuration from a fixed config directory.
type dirProvider struct{ dir string }

func (p dirProvider) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	opts.ConfigDirPath = p.dir
	return config.NewProvider().Load(ctx, opts)
}

type cliHarness struct {
	runner *recordingRunner
	root   string
	cfgDir string
	stdout bytes.Buffer
	stderr bytes.Buffer
	// interpreter is an existing executable, so PATH lookup succeeds
	// without PowerShell installed; the recording runner never starts it.
	interpreter string
}

func newCLIHarness(t *testing.T, scripts ...dispatch.CommandName) *cliHarness {
	t.Helper()

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error: %v", err)
	}

	h := &cliHarness{
		runner:      &recordingRunner{},
		root:        t.TempDir(),
		cfgDir:      t.TempDir(),
		interpreter: exe,
	}

	testutil.MustMkdirAll(t, filepath.Join(h.root, dispatch.ScriptsDirName), 0o755)
	for _, name := range scripts {
		desc, err := dispatch.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		testutil.WriteScript(t, h.root, string(desc.Script), "exit 0\n")
	}

	return h
}

func (h *cliHarness) run(t *testing.T, args ...string) types.ExitCode {
	t.Helper()

	h.stdout.Reset()
	h.stderr.Reset()

	app := NewApp(Dependencies{
		Config: dirProvider{dir: h.cfgDir},
		Runner: h.runner,
		Stdin:  strings.NewReader(""),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	return execute(context.Background(), app, args)
}

func (h *cliHarness) writeConfig(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(h.cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScriptCommand_Success(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandGenerate)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "generate")
	if code != types.ExitSuccess {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, h.stderr.String())
	}

	if len(h.runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(h.runner.calls))
	}
	inv := h.runner.calls[0]
	wantScript := filepath.Join(h.root, "scripts", "Generate-Documentation.ps1")
	if want := []string{"-File", wantScript}; !slices.Equal(inv.Args, want) {
		t.Errorf("Args = %v, want %v", inv.Args, want)
	}
	if inv.Program != h.interpreter {
		t.Errorf("Program = %q, want %q", inv.Program, h.interpreter)
	}
	if !slices.Contains(inv.Env, "NOTEMD_COMMAND=generate") {
		t.Error("expected NOTEMD_COMMAND=generate in child environment")
	}
}

func TestScriptCommand_PropagatesExitCode(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandProcess)
	h.runner.result = dispatch.Result{ExitCode: 3}

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "process")
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	if !strings.Contains(h.stderr.String(), "exited with status 3") {
		t.Errorf("stderr missing exit status:\n%s", h.stderr.String())
	}
}

func TestScriptCommand_MissingScript(t *testing.T) {
	h := newCLIHarness(t)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "clean")
	if code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(h.runner.calls) != 0 {
		t.Fatal("runner must not be called for a missing script")
	}

	stderr := h.stderr.String()
	for _, want := range []string{"Clean-Documentation.ps1", "Script not found"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestScriptCommand_RejectsArgs(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandClean)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "clean", "extra")
	if code == types.ExitSuccess {
		t.Fatal("expected failure for positional arguments")
	}
	if len(h.runner.calls) != 0 {
		t.Fatal("runner must not be called when arguments are rejected")
	}
}

func TestScriptCommand_DryRun(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandGenerate)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "--dry-run", "generate")
	if code != types.ExitSuccess {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, h.stderr.String())
	}
	if len(h.runner.calls) != 0 {
		t.Fatal("dry run must not call the runner")
	}
	if out := h.stdout.String(); !strings.Contains(out, "-File") || !strings.Contains(out, "Generate-Documentation.ps1") {
		t.Errorf("dry run output missing command line:\n%s", out)
	}
}

func TestScriptCommand_Precedence(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandGenerate)

	fileRoot := t.TempDir()
	envRoot := t.TempDir()
	h.writeConfig(t, "root: "+strconv.Quote(fileRoot)+"\ninterpreter_args: [\"-NoProfile\"]\n")
	t.Setenv("NOTEMD_INTERPRETER", h.interpreter)

	// File root has no scripts.
	if code := h.run(t, "generate"); code != types.ExitFailure {
		t.Fatalf("file root: exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), fileRoot) {
		t.Errorf("expected error to mention file root %s:\n%s", fileRoot, h.stderr.String())
	}

	// Environment beats the file.
	t.Setenv("NOTEMD_ROOT", envRoot)
	if code := h.run(t, "generate"); code != types.ExitFailure {
		t.Fatalf("env root: exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), envRoot) {
		t.Errorf("expected error to mention env root %s:\n%s", envRoot, h.stderr.String())
	}

	// The flag beats both.
	if code := h.run(t, "--root", h.root, "generate"); code != types.ExitSuccess {
		t.Fatalf("flag root: exit code = %d, want 0; stderr:\n%s", code, h.stderr.String())
	}
	if len(h.runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(h.runner.calls))
	}
	if got := h.runner.calls[0].Args; len(got) != 3 || got[0] != "-NoProfile" || got[1] != "-File" {
		t.Errorf("Args = %v, want interpreter args before -File", got)
	}
}

func TestScriptCommand_InvalidConfig(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandGenerate)
	h.writeConfig(t, `ui: color_scheme: "sepia"`)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "generate")
	if code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(h.runner.calls) != 0 {
		t.Fatal("runner must not be called with an invalid config")
	}
	if !strings.Contains(h.stderr.String(), "Failed to load configuration") {
		t.Errorf("expected config issue in stderr:\n%s", h.stderr.String())
	}
}

func TestListCommand(t *testing.T) {
	h := newCLIHarness(t, dispatch.CommandProcess)

	code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "list")
	if code != types.ExitSuccess {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, h.stderr.String())
	}

	out := h.stdout.String()
	for _, want := range []string{"Process-Documentation.ps1", "Generate-Documentation.ps1", "Clean-Documentation.ps1", "present", "missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		h := newCLIHarness(t, dispatch.AllCommandNames()...)

		if code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "check"); code != types.ExitSuccess {
			t.Fatalf("exit code = %d, want 0:\n%s", code, h.stdout.String())
		}
		if !strings.Contains(h.stdout.String(), "All checks passed") {
			t.Errorf("unexpected output:\n%s", h.stdout.String())
		}
	})

	t.Run("missing script", func(t *testing.T) {
		h := newCLIHarness(t, dispatch.CommandProcess, dispatch.CommandClean)

		if code := h.run(t, "--root", h.root, "--interpreter", h.interpreter, "check"); code != types.ExitFailure {
			t.Fatalf("exit code = %d, want 1", code)
		}
		if !strings.Contains(h.stdout.String(), "1 check(s) failed") {
			t.Errorf("unexpected output:\n%s", h.stdout.String())
		}
	})

	t.Run("missing interpreter", func(t *testing.T) {
		h := newCLIHarness(t, dispatch.AllCommandNames()...)

		missing := filepath.Join(t.TempDir(), "no-such-pwsh")
		if code := h.run(t, "--root", h.root, "--interpreter", missing, "check"); code != types.ExitFailure {
			t.Fatalf("exit code = %d, want 1", code)
		}
		if !strings.Contains(h.stdout.String(), "interpreter") {
			t.Errorf("unexpected output:\n%s", h.stdout.String())
		}
	})
}

func TestConfigShow(t *testing.T) {
	h := newCLIHarness(t)
	h.writeConfig(t, `interpreter: "pwsh-preview"`)

	tests := []struct {
		format string
		wantIn []string
	}{
		{"text", []string{"Current Configuration", "pwsh-preview", "color_scheme"}},
		{"cue", []string{`interpreter: "pwsh-preview"`, "ui: {"}},
		{"toml", []string{"interpreter", "pwsh-preview", "[ui]"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if code := h.run(t, "config", "show", "--format", tt.format); code != types.ExitSuccess {
				t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, h.stderr.String())
			}
			for _, want := range tt.wantIn {
				if !strings.Contains(h.stdout.String(), want) {
					t.Errorf("output missing %q:\n%s", want, h.stdout.String())
				}
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if code := h.run(t, "config", "show", "--format", "yaml"); code != types.ExitFailure {
			t.Fatalf("exit code = %d, want 1", code)
		}
	})
}
