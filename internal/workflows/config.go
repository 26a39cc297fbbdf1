package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ripenv/ripenv/internal/configs"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"
)

// SetConfigOptions lists the user settings to change. Nil fields are left as they are.
type SetConfigOptions struct {
	Email       *string
	Keyfile     *string
	OutDir      *string
	Directory   *string
	Concurrency *int
}

// SetConfig updates and saves the user configuration.
//
// Returns ErrInvalidEmail if the email is malformed.
// Returns ErrInvalidKeyfile or ErrFileNotFound if Keyfile is not a readable keyfile.
func SetConfig(ctx context.Context, opts SetConfigOptions) (*configs.UserConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if opts.Email != nil {
		email := utils.NormalizeEmail(*opts.Email)
		if !utils.IsValidEmail(email) {
			return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, *opts.Email)
		}
		userConfig.User.Email = email
	}
	if opts.Keyfile != nil {
		path, err := filepath.Abs(*opts.Keyfile)
		if err != nil {
			return nil, fmt.Errorf("resolving keyfile path: %w", err)
		}
		if _, err := secrets.LoadKeyfile(path); err != nil {
			return nil, err
		}
		userConfig.User.Keyfile = path
	}
	if opts.OutDir != nil {
		userConfig.Defaults.OutDir = *opts.OutDir
	}
	if opts.Directory != nil {
		userConfig.Defaults.Directory = *opts.Directory
	}
	if opts.Concurrency != nil {
		userConfig.Defaults.Concurrency = *opts.Concurrency
	}

	if err := configs.SaveUserConfig(userConfig); err != nil {
		return nil, err
	}
	return userConfig, nil
}

// ShowConfigResult is the effective user configuration.
type ShowConfigResult struct {
	Path    string
	Config  *configs.UserConfig
	Keyfile string
	OutDir  string
}

// ShowConfig loads the user configuration with defaults applied.
func ShowConfig(ctx context.Context) (*ShowConfigResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	return &ShowConfigResult{
		Path:    configs.UserConfigPath(),
		Config:  userConfig,
		Keyfile: userConfig.KeyfilePath(),
		OutDir:  userConfig.OutDir(),
	}, nil
}
