package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/configs"
	"github.com/ripenv/ripenv/internal/directory"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Password protects the new private key. Must not be empty.
	Password []byte

	// OutDir is where the working copy of the keyfile is written. Defaults to ".".
	OutDir string

	// Filename is the keyfile name. Defaults to mykey.enc.json.
	Filename string

	// Force overwrites existing keyfiles.
	Force bool

	// RegisterDir, when set, registers the new public key in this key directory.
	RegisterDir string

	// Email identifies the user in the key directory. Required with RegisterDir.
	Email string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// KeyfilePaths lists every keyfile copy written.
	KeyfilePaths []string

	// PublicKey is the base64 public key of the new identity.
	PublicKey string

	// Fingerprint is a short display form of PublicKey.
	Fingerprint string

	// Registered reports whether the key was added to RegisterDir.
	Registered bool
}

// Init generates a new identity keypair and writes it as a password-protected
// keyfile to the working directory and to the user's key directory.
//
// Returns ErrEmptyPassword if no password is given.
// Returns ErrInvalidEmail if RegisterDir is set without a valid Email.
// Returns ErrFileExists if a keyfile is already present and Force is false.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(opts.Password) == 0 {
		return nil, kerrors.ErrEmptyPassword
	}
	if opts.RegisterDir != "" && !utils.IsValidEmail(utils.NormalizeEmail(opts.Email)) {
		return nil, fmt.Errorf("%w: registering requires a valid --email, got %q", kerrors.ErrInvalidEmail, opts.Email)
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}
	filename := opts.Filename
	if filename == "" {
		filename = secrets.DefaultKeyfileName
	}

	paths := keyfileDestinations(filepath.Join(outDir, filename), filepath.Join(configs.UserRipenvSettings.UserKeysPath, filename))

	if err := configs.EnsureUserSettings(); err != nil {
		return nil, fmt.Errorf("ensuring user settings: %w", err)
	}

	keyfile, keypair, err := secrets.NewKeyfile(opts.Password)
	if err != nil {
		return nil, fmt.Errorf("generating keyfile: %w", err)
	}
	keypair.Wipe()

	data, err := keyfile.Marshal()
	if err != nil {
		return nil, err
	}
	pending := make([]utils.PendingFile, 0, len(paths))
	for _, path := range paths {
		pending = append(pending, utils.PendingFile{Path: path, Data: data, Perm: 0600})
	}
	if err := utils.WriteFilesAtomically(pending, opts.Force); err != nil {
		return nil, err
	}

	publicKey, _ := secrets.ParsePublicKey(keyfile.PublicKey)
	result := &InitResult{
		KeyfilePaths: paths,
		PublicKey:    keyfile.PublicKey,
		Fingerprint:  secrets.Fingerprint(publicKey),
	}

	if opts.RegisterDir != "" {
		if _, err := directory.New(opts.RegisterDir).Register(opts.Email, keyfile.PublicKey); err != nil {
			return nil, fmt.Errorf("registering public key: %w", err)
		}
		result.Registered = true
	}

	auditEntry := audit.LogWithUser("init")
	auditEntry.Files = paths
	if result.Registered {
		auditEntry.TargetUser = utils.NormalizeEmail(opts.Email)
	}
	audit.Log(auditEntry)

	return result, nil
}

// keyfileDestinations drops the user copy when it resolves to the working copy.
func keyfileDestinations(working, user string) []string {
	workingAbs, err1 := filepath.Abs(working)
	userAbs, err2 := filepath.Abs(user)
	if err1 == nil && err2 == nil && workingAbs == userAbs {
		return []string{working}
	}
	return []string{working, user}
}
