package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// GetPath returns the path to the configuration file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "hamal", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "hamal", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "hamal", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

// GetDataDir returns the directory holding profiles, backups, the permanent
// trigger file, and the active-profile marker.
func GetDataDir() string {
	if xdgData, ok := os.LookupEnv("XDG_DATA_HOME"); ok && xdgData != "" {
		return filepath.Join(xdgData, "hamal")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".local", "share", "hamal")
	}

	tmpData := filepath.Join(os.TempDir(), "hamal")

	slog.Warn("could not determine user data directory, using temp path for data",
		slog.String("path", tmpData),
		slog.Any("error", fmt.Errorf("$XDG_DATA_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpData
}

// Data file layout under [GetDataDir].
const (
	ProfilesDirName   = "profiles"
	BackupsDirName    = "backups"
	PermanentFileName = "permanent.json"
	MarkerFileName    = "current-profile"
)

// ProfilesDir returns the profile storage directory under dataDir.
func ProfilesDir(dataDir string) string {
	return filepath.Join(dataDir, ProfilesDirName)
}

// BackupsDir returns the backup directory under dataDir.
func BackupsDir(dataDir string) string {
	return filepath.Join(dataDir, BackupsDirName)
}

// PermanentPath returns the permanent trigger file path under dataDir.
func PermanentPath(dataDir string) string {
	return filepath.Join(dataDir, PermanentFileName)
}

// MarkerPath returns the active-profile marker path under dataDir.
func MarkerPath(dataDir string) string {
	return filepath.Join(dataDir, MarkerFileName)
}
