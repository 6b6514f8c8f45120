// Package config resolves the git-vines configuration directory and loads the
// optional config file that supplies flag defaults.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the git-vines configuration directory.
//
// Resolution:
//   - $GIT_VINES_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/git-vines if set (respects XDG on any platform)
//   - %AppData%/git-vines on Windows
//   - ~/.config/git-vines on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("GIT_VINES_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-vines")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "git-vines")
		}
	}

	// macOS and Linux: ~/.config/git-vines
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git-vines")
}

// Path returns the config file location, or "" when no directory resolves.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
