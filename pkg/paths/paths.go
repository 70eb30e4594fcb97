// Package paths centralizes filesystem locations for cablekit. It
// follows the XDG Base Directory specification via adrg/xdg, with
// environment overrides for tests and unusual setups.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvStateDir overrides the XDG state directory for cablekit
	EnvStateDir = "CABLEKIT_STATE_DIR"

	// EnvConfigDir overrides the XDG config directory for cablekit
	EnvConfigDir = "CABLEKIT_CONFIG_DIR"
)

const (
	// AppDirName is the per-app subdirectory under the XDG roots
	AppDirName = "cablekit"

	// LogFileName is the name of the log file
	LogFileName = "cablekit.log"

	// ProfileFileName is the default robot profile file name
	ProfileFileName = "profile.toml"
)

// StateDir returns the directory for mutable state such as the log
// file.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigDir returns the directory searched for robot profiles.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// LogFilePath returns the full path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// DefaultProfilePath returns the profile path used when none is given
// on the command line.
func DefaultProfilePath() string {
	return filepath.Join(ConfigDir(), ProfileFileName)
}
