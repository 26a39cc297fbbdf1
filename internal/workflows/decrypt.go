package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/configs"
	"github.com/ripenv/ripenv/internal/envelope"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/manifest"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/awnumar/memguard"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// EncPath is the encrypted payload. Defaults to ./.env.enc.
	EncPath string

	// ManifestPath defaults to ripenv.manifest.json next to EncPath.
	ManifestPath string

	// Email selects the manifest entry. Defaults to the configured email.
	Email string

	// KeyfilePath defaults to the configured keyfile.
	KeyfilePath string

	// Password unlocks the keyfile.
	Password []byte

	// OutPath defaults to EncPath without its .enc suffix.
	OutPath string

	// Force overwrites an existing output.
	Force bool
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// OutPath is the written plaintext file.
	OutPath string

	// Email is the manifest entry that was used.
	Email string

	// Size is the plaintext length in bytes.
	Size int
}

// Decrypt recovers the plaintext .env from a payload and manifest.
//
// Returns ErrInvalidEmail if no usable email is given or configured.
// Returns ErrFileExists if the output exists and Force is false.
// Returns ErrFileNotFound if the keyfile, manifest or payload is missing.
// Returns ErrInvalidPassword if the keyfile cannot be unlocked.
// Returns ErrRecipientNotFound, ErrUnwrapFailed or ErrPayloadCorrupt from decryption.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	email := opts.Email
	if email == "" {
		email = userConfig.User.Email
	}
	if !utils.IsValidEmail(utils.NormalizeEmail(email)) {
		return nil, fmt.Errorf("%w: pass --email or set user.email, got %q", kerrors.ErrInvalidEmail, email)
	}
	keyfilePath := opts.KeyfilePath
	if keyfilePath == "" {
		keyfilePath = userConfig.KeyfilePath()
	}
	encPath := opts.EncPath
	if encPath == "" {
		encPath = ".env" + PayloadExt
	}
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(filepath.Dir(encPath), manifest.DefaultFilename)
	}
	outPath := opts.OutPath
	if outPath == "" {
		outPath = defaultPlaintextPath(encPath)
	}

	if !opts.Force && utils.FileExists(outPath) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileExists, outPath)
	}

	keyfile, err := secrets.LoadKeyfile(keyfilePath)
	if err != nil {
		return nil, err
	}
	keypair, err := keyfile.Unlock(opts.Password)
	if err != nil {
		return nil, err
	}
	defer keypair.Wipe()

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(encPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, encPath)
		}
		return nil, fmt.Errorf("reading %s: %w", encPath, err)
	}

	plaintext, err := envelope.Decrypt(payload, m, email, keypair)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(plaintext)

	if err := utils.WriteFilesAtomically([]utils.PendingFile{{Path: outPath, Data: plaintext, Perm: 0600}}, opts.Force); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("decrypt")
	auditEntry.Files = []string{outPath}
	auditEntry.ProjectID = m.ProjectID
	audit.Log(auditEntry)

	return &DecryptResult{
		OutPath: outPath,
		Email:   utils.NormalizeEmail(email),
		Size:    len(plaintext),
	}, nil
}

// defaultPlaintextPath strips .enc, or names the output .env when there is
// nothing to strip.
func defaultPlaintextPath(encPath string) string {
	base := filepath.Base(encPath)
	if strings.HasSuffix(base, PayloadExt) && len(base) > len(PayloadExt) {
		return filepath.Join(filepath.Dir(encPath), strings.TrimSuffix(base, PayloadExt))
	}
	return filepath.Join(filepath.Dir(encPath), ".env")
}
