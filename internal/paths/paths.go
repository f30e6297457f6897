// Package paths resolves where assetledger keeps its configuration and its
// state database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Project-local directory names, relative to the working directory.
const (
	DefaultConfigDirName = ".assetledger"
	DefaultDataDirName   = ".assetledger-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ASSETLEDGER_CONFIG_DIR"
	EnvDataDir   = "ASSETLEDGER_DATA_DIR"
)

const appName = "assetledger"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/assetledger (fallback ~/.config/assetledger)
// macOS:   ~/Library/Application Support/assetledger
// Windows: %APPDATA%/assetledger
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the per-user data directory.
//
// Linux:   $XDG_DATA_HOME/assetledger (fallback ~/.local/share/assetledger)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return DefaultConfigDir()
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appName), nil
}

// ResolveConfigDir returns the configuration directory. Precedence:
// flag, then ASSETLEDGER_CONFIG_DIR, then ./.assetledger when it already
// exists, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	local, err := filepath.Abs(DefaultConfigDirName)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory. Precedence: flag, then the
// data_dir value from config.yaml, then ASSETLEDGER_DATA_DIR, then
// ./.assetledger-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
