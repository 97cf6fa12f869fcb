package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// GetDataDir resolves the base directory for all animesift storage. It checks
// ANIMESIFT_DIR first, then XDG paths, and finally falls back to the user's
// home directory.
func GetDataDir() string {
	if explicit := os.Getenv("ANIMESIFT_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "animesift")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "animesift")
}

// GetDBPath returns the absolute path to the SQLite database file.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "animesift.db")
}

// GetLogDir returns the directory that holds rotated log files.
func GetLogDir() string {
	return filepath.Join(GetDataDir(), "logs")
}

// GetSettingsPath returns the default location of the optional settings file.
func GetSettingsPath() string {
	return filepath.Join(GetDataDir(), "config.yaml")
}

// ProfileNameFromPath derives a profile name from a catalog file path so that
// each catalog gets its own decision namespace unless one is chosen explicitly.
func ProfileNameFromPath(catalogPath string) string {
	base := filepath.Base(catalogPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	replacer := strings.NewReplacer("/", "-", " ", "-", "_", "-")
	name := replacer.Replace(base)
	if name == "" || name == "." {
		return "default"
	}
	return name
}
