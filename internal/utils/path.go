package utils

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ConfigDir returns the platform config directory for appName
// ($XDG_CONFIG_HOME on Linux, Application Support on macOS, %APPDATA% on Windows).
func ConfigDir(appName string) string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DataDir returns the platform data directory for appName.
func DataDir(appName string) string {
	return filepath.Join(xdg.DataHome, appName)
}

// ResolveDataPath looks for path as given, then next to the executable, then
// under the data directory of appName.
func ResolveDataPath(appName, path string) string {
	if filepath.IsAbs(path) || FileExists(path) {
		return path
	}
	if execDir, err := GetExecutableDir(); err == nil {
		candidate := filepath.Join(execDir, path)
		if FileExists(candidate) {
			log.Debugf("Resolved data path next to executable: %s", candidate)
			return candidate
		}
	}
	if candidate := filepath.Join(DataDir(appName), path); FileExists(candidate) {
		log.Debugf("Resolved data path in data dir: %s", candidate)
		return candidate
	}
	return path
}
