package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FSEDIT_CONFIG_PATH: config file location (default: ~/.config/fsedit.toml)
//   - FSEDIT_HOME: base directory for fsedit data (default: ~/.local/share/fsedit)
//   - FSEDIT_SAVES_DIR: Farming Simulator profile directory holding the savegames
//     (default: ~/Documents/My Games/FarmingSimulator2025)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	savesDir, err := getSavesDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"saves_dir":   savesDir,
	}, nil
}

// getConfigPath returns the config file path, checking FSEDIT_CONFIG_PATH env
// var first, then falling back to the default ~/.config/fsedit.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FSEDIT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "fsedit.toml"), nil
}

// getBaseDir returns the base directory for fsedit data, checking FSEDIT_HOME
// env var first, then falling back to the XDG default ~/.local/share/fsedit.
func getBaseDir() (string, error) {
	if path := os.Getenv("FSEDIT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "fsedit"), nil
}

// getSavesDir returns the savegame directory, checking FSEDIT_SAVES_DIR env
// var first, then falling back to the stock Farming Simulator profile path.
func getSavesDir() (string, error) {
	if path := os.Getenv("FSEDIT_SAVES_DIR"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, "Documents", "My Games", "FarmingSimulator2025"), nil
}
