// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ScriptNotFoundId Id = iota + 1
	InterpreterNotFoundId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

const docsBase HttpLink = "https://github.com/notemd/notemd/blob/main/docs/"

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal Markdown using the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id:       ScriptNotFoundId,
		docLinks: []HttpLink{docsBase + "installation.md"},
		mdMsg: `
# Script not found!

notemd runs PowerShell scripts installed next to the program, in a
` + "`scripts`" + ` directory under the installation root. The script for this
command is not there.

## Things you can try:
- List the expected script locations:
~~~
$ notemd list
~~~

- Point notemd at the directory that contains ` + "`scripts/`" + `:
~~~
$ notemd --root /path/to/notemd generate
~~~

- Or set it once in your configuration file:
~~~cue
root: "/path/to/notemd"
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id:       InterpreterNotFoundId,
		docLinks: []HttpLink{docsBase + "installation.md"},
		extLinks: []HttpLink{"https://learn.microsoft.com/powershell/scripting/install/installing-powershell"},
		mdMsg: `
# PowerShell not found!

notemd needs PowerShell (` + "`pwsh`" + `) on your PATH to run its scripts.

## Things you can try:
- Install PowerShell 7 or newer
- Check that it is on your PATH:
~~~
$ pwsh -Version
~~~

- Or tell notemd where it lives:
~~~
$ notemd --interpreter /usr/local/bin/pwsh process
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id:       ScriptExecutionFailedId,
		docLinks: []HttpLink{docsBase + "troubleshooting.md"},
		mdMsg: `
# Script execution failed!

The PowerShell script exited with a non-zero status. Its own output above
usually explains why.

## Things you can try:
- Run with verbose mode to see the exact command line:
~~~
$ notemd --verbose generate
~~~

- Print the command line without running it:
~~~
$ notemd --dry-run generate
~~~

- Run the printed command yourself to debug the script`,
	}

	configLoadFailedIssue = &Issue{
		id:       ConfigLoadFailedId,
		docLinks: []HttpLink{docsBase + "configuration.md"},
		mdMsg: `
# Failed to load configuration!

## Configuration file locations:
- Linux: ~/.config/notemd/config.cue
- macOS: ~/Library/Application Support/notemd/config.cue
- Windows: %APPDATA%\notemd\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ notemd config init
~~~

- Check the configuration syntax

## Example configuration:
~~~cue
root: "/opt/notemd"
interpreter: "pwsh"
interpreter_args: ["-NoProfile"]

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id:       PermissionDeniedId,
		docLinks: []HttpLink{docsBase + "troubleshooting.md"},
		mdMsg: `
# Permission denied!

notemd could not read a script or start the interpreter.

## Things you can try:
- Check the permissions of the installation root and its ` + "`scripts`" + ` directory
- Check that the interpreter is executable
- Reinstall notemd as the user that runs it`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():        scriptNotFoundIssue,
		interpreterNotFoundIssue.Id():   interpreterNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns all catalog entries ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, iss := range issues {
		out = append(out, iss)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
