package config

import (
	"os"
	"path/filepath"
)

const AppName = "saul"

// HomeEnv overrides the config directory, mostly for tests and scripts.
const HomeEnv = "SAUL_HOME"

const (
	configFileName = "config.yaml"
	databaseName   = "saul.db"
	logsDirName    = "logs"
	logFileName    = "saul.log"
)

// GetConfigDir returns ~/.config/saul (or $SAUL_HOME), creating it if needed.
func GetConfigDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", AppName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func inConfigDir(elem ...string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

func GetConfigFile() (string, error) { return inConfigDir(configFileName) }

func GetDatabasePath() (string, error) { return inConfigDir(databaseName) }

func GetLogsDir() (string, error) {
	dir, err := inConfigDir(logsDirName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func GetLogPath() (string, error) {
	dir, err := GetLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// Exists reports whether a config file has been written yet.
func Exists() bool {
	path, err := GetConfigFile()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
