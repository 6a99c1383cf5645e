// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by notemd tests: installation
// trees with scripts, a POSIX stand-in for PowerShell, and a process-wide
// limit on concurrent container tests.
package testutil
