package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "ASCGEN_CONFIG"
	// ConfigFileName is the project config looked up next to the designs.
	ConfigFileName = "ascgen.yaml"
	// ConfigDirName is the per-user directory under os.UserConfigDir.
	ConfigDirName = "ascgen"
)

// FindConfigPath returns the config file to load, or "" when there is none.
// $ASCGEN_CONFIG wins, then the nearest ascgen.yaml in the working
// directory or one of its parents, then the per-user config.yaml.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && isFile(path) {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		if path := findProjectConfig(wd); path != "" {
			return path
		}
	}
	if path := UserConfigPath(); isFile(path) {
		return path
	}
	return ""
}

// UserConfigPath is where the per-user config lives, whether or not it
// exists.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, "config.yaml")
}

// findProjectConfig walks from dir up to the filesystem root.
func findProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if isFile(path) {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
