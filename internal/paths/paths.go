// Package paths resolves where courtside keeps its configuration file and
// its match database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config and data
// roots.
const AppName = "courtside"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".courtside"
	DefaultDataDirName   = ".courtside-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "COURTSIDE_CONFIG_DIR"
	EnvDataDir   = "COURTSIDE_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir describes one XDG base directory: its environment variable and its
// fallback below the home directory.
type xdgDir struct {
	env      string
	fallback []string
}

var (
	xdgConfig = xdgDir{env: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	xdgData   = xdgDir{env: "XDG_DATA_HOME", fallback: []string{".local", "share"}}
)

// platformRoot returns the per-user root for d. Linux follows XDG; macOS and
// Windows use os.UserConfigDir for both config and data.
func platformRoot(d xdgDir) (string, error) {
	if platformDir.goos != "linux" {
		return platformDir.userConfigDir()
	}
	if v := os.Getenv(d.env); v != "" {
		return v, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, d.fallback...)...), nil
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/courtside (fallback ~/.config/courtside)
// macOS:   ~/Library/Application Support/courtside
// Windows: %APPDATA%/courtside
func DefaultConfigDir() (string, error) {
	root, err := platformRoot(xdgConfig)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/courtside (fallback ~/.local/share/courtside)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	root, err := platformRoot(xdgData)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

// firstAbs returns the absolute form of the first non-empty candidate.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			abs, err := filepath.Abs(c)
			return abs, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir returns the configuration directory:
// flag > COURTSIDE_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the directory holding the match database:
// flag > data_dir from the config file > COURTSIDE_DATA_DIR > ./.courtside-db.
//
// The working-directory default keeps a scorer's database next to where the
// operator launched it, which is where a courtside laptop expects it.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
