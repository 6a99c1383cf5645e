// SPDX-License-Identifier: MPL-2.0

// Package dispatch runs notemd's bundled PowerShell scripts.
//
// Each CLI command maps to exactly one script through a static, init-time
// validated table of Descriptors. A Dispatcher resolves the script under an
// explicit installation root (<root>/scripts/<file>), checks that it exists,
// and invokes the interpreter as
//
//	<interpreter> [interpreter args...] -File <script>
//
// through a Runner. The child inherits the caller's standard streams and the
// call blocks until it exits. A non-zero exit becomes an *ExecutionError
// carrying the exit code; a missing script becomes a *ScriptNotFoundError
// before any process is started.
package dispatch
