package configs

import (
	"fmt"
	"os"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/utils"
)

type UserConfig struct {
	User     User     `toml:"user"`
	Defaults Defaults `toml:"defaults"`
}

type User struct {
	Email   string `toml:"email"`
	Keyfile string `toml:"keyfile"`
}

type Defaults struct {
	OutDir      string `toml:"out_dir"`
	Directory   string `toml:"directory"`
	Concurrency int    `toml:"concurrency"`
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields an empty config.
func LoadUserConfig() (*UserConfig, error) {
	configPath := UserConfigPath()

	config := &UserConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := SaveTOML(UserConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// Validate rejects values no command could use.
func (c *UserConfig) Validate() error {
	if c.User.Email != "" && !utils.IsValidEmail(c.User.Email) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, c.User.Email)
	}
	if c.Defaults.Concurrency < 0 {
		return fmt.Errorf("defaults.concurrency must not be negative, got %d", c.Defaults.Concurrency)
	}
	return nil
}

// KeyfilePath returns the configured keyfile, or the default location.
func (c *UserConfig) KeyfilePath() string {
	if c.User.Keyfile != "" {
		return c.User.Keyfile
	}
	return DefaultKeyfilePath()
}

// OutDir returns the configured output directory, or the working directory.
func (c *UserConfig) OutDir() string {
	if c.Defaults.OutDir != "" {
		return c.Defaults.OutDir
	}
	return "."
}
