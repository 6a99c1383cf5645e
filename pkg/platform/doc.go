// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes runtime.GOOS names and the Windows reserved file names that
// bundled script files must avoid.
package platform
