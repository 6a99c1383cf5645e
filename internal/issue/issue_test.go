// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ScriptNotFoundId,
		InterpreterNotFoundId,
		ScriptExecutionFailedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if ScriptNotFoundId != 1 {
		t.Errorf("ScriptNotFoundId = %d, want 1", ScriptNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ScriptNotFoundId, false, "Script not found"},
		{InterpreterNotFoundId, false, "PowerShell not found"},
		{ScriptExecutionFailedId, false, "Script execution failed"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			iss := Get(tt.id)

			if tt.wantNil {
				if iss != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if iss == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if iss.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, iss.Id())
			}
			if !strings.Contains(string(iss.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
			if len(iss.DocLinks()) == 0 {
				t.Errorf("Get(%d) has no doc links", tt.id)
			}
		})
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	iss := Get(InterpreterNotFoundId)

	links := iss.DocLinks()
	original := links[0]
	links[0] = "modified"
	if iss.DocLinks()[0] != original {
		t.Error("DocLinks() should return a clone")
	}

	ext := iss.ExtLinks()
	originalExt := ext[0]
	ext[0] = "modified"
	if iss.ExtLinks()[0] != originalExt {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(ScriptNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("render called with style %q, want %q", gotStyle, "dark")
	}
	if !strings.Contains(rendered, "notemd --root") {
		t.Error("Render() output should contain the --root hint")
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "installation.md") {
		t.Errorf("Render() output should list doc links, got:\n%s", rendered)
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted: %d before %d", values[i-1].Id(), values[i].Id())
		}
	}
}
