package workflows

import (
	"context"
	"fmt"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/configs"
	"github.com/ripenv/ripenv/internal/directory"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
)

// RegisterMode indicates where the registered public key comes from.
type RegisterMode string

const (
	// RegisterModePubkeyText registers a user with provided public key text.
	RegisterModePubkeyText RegisterMode = "pubkey_text"
	// RegisterModeKeyfile registers the public half of a keyfile. No password is needed.
	RegisterModeKeyfile RegisterMode = "keyfile"
)

// RegisterOptions configures the register workflow.
type RegisterOptions struct {
	// Directory is the key directory to register into. Defaults to defaults.directory.
	Directory string

	// Email identifies the user.
	Email string

	// PublicKeyText contains the base64 public key (for pubkey_text mode).
	PublicKeyText string

	// KeyfilePath is the keyfile to take the public key from (for keyfile mode).
	KeyfilePath string
}

// RegisterResult contains the outcome of a register operation.
type RegisterResult struct {
	// Record is the stored directory record.
	Record *directory.Record

	// Mode reports which input was used.
	Mode RegisterMode

	// Fingerprint is a short display form of the public key.
	Fingerprint string

	// Directory is the key directory that was written.
	Directory string

	// Replaced reports whether an earlier record for the email was overwritten.
	Replaced bool
}

// Register adds an identity to a key directory, replacing any previous
// record for the same email.
//
// Returns ErrNoKeyDirectory if no directory is given or configured.
// Returns ErrInvalidEmail if the email is malformed.
// Returns ErrInvalidRecipient if the public key is unusable.
// Returns ErrInvalidKeyfile or ErrFileNotFound when reading a keyfile fails.
func Register(ctx context.Context, opts RegisterOptions) (*RegisterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirPath, err := resolveDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}

	mode := RegisterModePubkeyText
	publicKey := opts.PublicKeyText
	if publicKey == "" {
		if opts.KeyfilePath == "" {
			return nil, fmt.Errorf("%w: pass a public key or a keyfile", kerrors.ErrInvalidRecipient)
		}
		keyfile, err := secrets.LoadKeyfile(opts.KeyfilePath)
		if err != nil {
			return nil, err
		}
		mode = RegisterModeKeyfile
		publicKey = keyfile.PublicKey
	}

	dir := directory.New(dirPath)
	_, lookupErr := dir.Get(opts.Email)
	replaced := lookupErr == nil

	record, err := dir.Register(opts.Email, publicKey)
	if err != nil {
		return nil, err
	}

	parsed, _ := secrets.ParsePublicKey(record.PublicKey)

	auditEntry := audit.LogWithUser("register")
	auditEntry.TargetUser = record.Email
	audit.Log(auditEntry)

	return &RegisterResult{
		Record:      record,
		Mode:        mode,
		Directory:   dirPath,
		Fingerprint: secrets.Fingerprint(parsed),
		Replaced:    replaced,
	}, nil
}

// resolveDirectory falls back to defaults.directory when dir is empty.
func resolveDirectory(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return "", err
	}
	if userConfig.Defaults.Directory == "" {
		return "", fmt.Errorf("%w: pass --directory or set defaults.directory", kerrors.ErrNoKeyDirectory)
	}
	return userConfig.Defaults.Directory, nil
}
