// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the notemd command-line interface.
//
// The command tree is built by newRootCommand around an App, which owns the
// configuration provider, the process runner and the standard streams. Each of
// process, generate and clean hands its work to a dispatch.Dispatcher built
// from the effective configuration (flags over NOTEMD_* environment variables
// over the config file over defaults).
package cmd
