package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"
)

type UserSettings struct {
	UserKeysPath    string
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

var UserRipenvSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")

	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	UserRipenvSettings = &UserSettings{
		UserKeysPath:    filepath.Join(dataDir, "ripenv", "keys"),
		UserConfigsPath: filepath.Join(configDir, "ripenv"),
		UserDataPath:    filepath.Join(dataDir, "ripenv"),
		Username:        username,
	}
}

// EnsureUserSettings creates the user's ripenv directories.
func EnsureUserSettings() error {
	for _, dir := range []string{UserRipenvSettings.UserKeysPath, UserRipenvSettings.UserConfigsPath, UserRipenvSettings.UserDataPath} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultKeyfilePath is where init stores the user's copy of their keyfile.
func DefaultKeyfilePath() string {
	return filepath.Join(UserRipenvSettings.UserKeysPath, secrets.DefaultKeyfileName)
}

// UserConfigPath is the location of the user's config.toml.
func UserConfigPath() string {
	return filepath.Join(UserRipenvSettings.UserConfigsPath, "config.toml")
}
