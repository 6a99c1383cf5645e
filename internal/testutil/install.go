// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FakeInterpreter is a POSIX shell stand-in for pwsh. It insists on the
// "-File <script>" calling convention (after any leading options) and runs
// the script with /bin/sh.
const FakeInterpreter = `#!/bin/sh
while [ $# -gt 0 ] && [ "$1" != "-File" ]; do
	shift
done
if [ "$1" != "-File" ] || [ -z "$2" ]; then
	echo "expected -File <script>" >&2
	exit 97
fi
exec /bin/sh "$2"
`

// WriteFakeInterpreter installs FakeInterpreter in a temp dir and returns
// its path. The test is skipped on Windows.
func WriteFakeInterpreter(t testing.TB) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pwsh")
	if err := os.WriteFile(path, []byte(FakeInterpreter), 0o755); err != nil {
		t.Fatalf("failed to write fake interpreter: %v", err)
	}
	return path
}

// WriteScript writes body to root/scripts/file, creating the scripts
// directory as needed, and returns the script path.
func WriteScript(t testing.TB, root, file, body string) string {
	t.Helper()

	dir := filepath.Join(root, "scripts")
	MustMkdirAll(t, dir, 0o755)

	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write script %s: %v", path, err)
	}
	return path
}

// MustMkdirAll creates a directory and all parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}
