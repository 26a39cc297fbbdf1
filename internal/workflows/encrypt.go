package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/configs"
	"github.com/ripenv/ripenv/internal/envelope"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/manifest"
	"github.com/ripenv/ripenv/internal/recipients"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/awnumar/memguard"
	"github.com/joho/godotenv"
)

// PayloadExt is appended to the plaintext filename to name the encrypted payload.
const PayloadExt = ".enc"

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// EnvPath is the plaintext file to encrypt. Defaults to ./.env.
	EnvPath string

	// Source resolves the recipients. If nil, the configured default key
	// directory is used.
	Source recipients.Source

	// ProjectID is recorded in the manifest. If empty and Source is an
	// export file, the export's projectId is used.
	ProjectID string

	// OutDir is where .env.enc and the manifest are written. Defaults to the
	// configured out_dir, then ".".
	OutDir string

	// Force overwrites existing outputs.
	Force bool

	// Concurrency bounds parallel key wrapping. 0 uses the configured value,
	// then the number of CPUs.
	Concurrency int
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// PayloadPath is the written .env.enc file.
	PayloadPath string

	// ManifestPath is the written manifest.
	ManifestPath string

	// Recipients lists the manifest emails in order.
	Recipients []string

	// ProjectID is the project recorded in the manifest, if any.
	ProjectID string

	// Empty reports that the plaintext had no content.
	Empty bool

	// ParseWarning is set when the plaintext does not parse as dotenv.
	// The content is still encrypted as opaque bytes.
	ParseWarning error
}

// projectScoped is implemented by sources that know their own project.
type projectScoped interface {
	ProjectID() (string, error)
}

// Encrypt encrypts a .env file for every recipient the source resolves.
// Both outputs are written, or neither is.
//
// Returns ErrFileNotFound if EnvPath does not exist.
// Returns ErrFileExists if an output exists and Force is false.
// Returns ErrNoRecipients if no recipient source is available or it is empty.
// Returns ErrDuplicateRecipient or ErrInvalidRecipient from recipient validation.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	envPath := opts.EnvPath
	if envPath == "" {
		envPath = ".env"
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = userConfig.OutDir()
	}
	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = userConfig.Defaults.Concurrency
	}
	source := opts.Source
	if source == nil {
		if userConfig.Defaults.Directory == "" {
			return nil, fmt.Errorf("%w: pass --recipients or --directory, or set defaults.directory", kerrors.ErrNoRecipients)
		}
		source = recipients.DirectorySource{Dir: userConfig.Defaults.Directory}
	}

	payloadPath := filepath.Join(outDir, filepath.Base(envPath)+PayloadExt)
	manifestPath := filepath.Join(outDir, manifest.DefaultFilename)
	if !opts.Force {
		for _, path := range []string{payloadPath, manifestPath} {
			if utils.FileExists(path) {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrFileExists, path)
			}
		}
	}

	plaintext, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, envPath)
		}
		return nil, fmt.Errorf("reading %s: %w", envPath, err)
	}
	defer memguard.WipeBytes(plaintext)

	projectID := opts.ProjectID
	if scoped, ok := source.(projectScoped); ok && projectID == "" {
		if projectID, err = scoped.ProjectID(); err != nil {
			return nil, err
		}
	}

	list, err := source.Recipients(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{
		PayloadPath:  payloadPath,
		ManifestPath: manifestPath,
		ProjectID:    projectID,
		Empty:        len(bytes.TrimSpace(plaintext)) == 0,
		ParseWarning: checkDotenv(plaintext),
	}

	envelopeOpts := []envelope.Option{envelope.WithProjectID(projectID)}
	if concurrency > 0 {
		envelopeOpts = append(envelopeOpts, envelope.WithConcurrency(concurrency))
	}
	sealed, err := envelope.Encrypt(plaintext, list, envelopeOpts...)
	if err != nil {
		return nil, err
	}

	manifestData, err := manifest.Serialize(sealed.Manifest)
	if err != nil {
		return nil, err
	}

	if err := utils.WriteFilesAtomically([]utils.PendingFile{
		{Path: payloadPath, Data: sealed.Payload, Perm: 0644},
		{Path: manifestPath, Data: manifestData, Perm: 0644},
	}, opts.Force); err != nil {
		return nil, err
	}
	result.Recipients = sealed.Manifest.Emails()

	auditEntry := audit.LogWithUser("encrypt")
	auditEntry.Files = []string{payloadPath, manifestPath}
	auditEntry.RecipientsCount = len(result.Recipients)
	auditEntry.ProjectID = projectID
	audit.Log(auditEntry)

	return result, nil
}

// checkDotenv reports whether content parses as a dotenv file.
func checkDotenv(content []byte) error {
	if _, err := godotenv.Parse(bytes.NewReader(content)); err != nil {
		return fmt.Errorf("content does not parse as a .env file: %w", err)
	}
	return nil
}
