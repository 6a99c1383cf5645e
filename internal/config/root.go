// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// executable is swapped in tests.
var executable = os.Executable

// InstallRoot returns the installation root for cfg: the configured root
// when set, otherwise the directory holding the notemd executable with
// symlinks resolved (so a symlink in /usr/local/bin still finds the scripts
// next to the real binary).
func InstallRoot(cfg *Config) (string, error) {
	if cfg != nil && cfg.Root != "" {
		return filepath.Abs(cfg.Root)
	}

	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate notemd executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
