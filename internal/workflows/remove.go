package workflows

import (
	"context"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/directory"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	// Directory is the key directory to remove from. Defaults to defaults.directory.
	Directory string

	// Email identifies the user to remove.
	Email string
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	// Email is the normalized email that was removed.
	Email string

	// Fingerprint is the display form of the key that was removed.
	Fingerprint string

	// Directory is the key directory that was modified.
	Directory string
}

// Remove deletes an identity from a key directory. Existing payloads stay
// readable by the removed user until the next export and encrypt.
//
// Returns ErrNoKeyDirectory if no directory is given or configured.
// Returns ErrInvalidEmail if the email is malformed.
// Returns ErrUserNotFound if the email is not registered.
func Remove(ctx context.Context, opts RemoveOptions) (*RemoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirPath, err := resolveDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}

	dir := directory.New(dirPath)
	publicKey, err := dir.PublicKey(opts.Email)
	if err != nil {
		return nil, err
	}
	if err := dir.Remove(opts.Email); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(opts.Email)
	fingerprint := ""
	if parsed, err := secrets.ParsePublicKey(publicKey); err == nil {
		fingerprint = secrets.Fingerprint(parsed)
	}

	auditEntry := audit.LogWithUser("remove")
	auditEntry.TargetUser = email
	audit.Log(auditEntry)

	return &RemoveResult{Email: email, Fingerprint: fingerprint, Directory: dirPath}, nil
}
