package config

import (
	"os"
	"path/filepath"
)

const (
	// ConfigPathEnv names the environment variable that overrides the
	// configuration file location when no explicit path is given.
	ConfigPathEnv = "ARBBOT_CONFIG"

	defaultConfigFile = "config.toml"
)

// resolveConfigPath selects the configuration file to read. An explicit
// path always wins, then ARBBOT_CONFIG, then config.toml in the current
// working directory.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		return env
	}
	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigFile
	}
	return filepath.Join(cwd, defaultConfigFile)
}
