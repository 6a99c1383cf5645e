// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError records what notemd was doing, which file or tool was
// involved and how to fix it. The issue catalog holds longer Markdown
// guidance, rendered with glamour, for the failures users hit most often:
// a missing script, a missing PowerShell interpreter, a failed script and an
// unreadable configuration file.
package issue
