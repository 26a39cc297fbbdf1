package workflows

import (
	"context"

	"github.com/ripenv/ripenv/internal/manifest"
	"github.com/ripenv/ripenv/internal/secrets"
)

// InspectOptions configures the manifest inspection workflow.
type InspectOptions struct {
	// Path defaults to ./ripenv.manifest.json.
	Path string
}

// RecipientSummary is the display form of a manifest entry.
type RecipientSummary struct {
	Email       string
	Fingerprint string
}

// InspectResult contains the parsed manifest and its summary.
type InspectResult struct {
	Path       string
	Manifest   *manifest.Manifest
	Recipients []RecipientSummary
}

// InspectManifest parses and validates a manifest without decrypting anything.
//
// Returns ErrFileNotFound, ErrManifestMalformed or ErrManifestCorrupt.
func InspectManifest(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := opts.Path
	if path == "" {
		path = manifest.DefaultFilename
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipientSummary, 0, len(m.Recipients))
	for _, entry := range m.Recipients {
		publicKey, _ := secrets.ParsePublicKey(entry.PublicKey)
		summaries = append(summaries, RecipientSummary{
			Email:       entry.Email,
			Fingerprint: secrets.Fingerprint(publicKey),
		})
	}

	return &InspectResult{Path: path, Manifest: m, Recipients: summaries}, nil
}
