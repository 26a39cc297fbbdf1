package envelope

import (
	"fmt"
	"strings"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/manifest"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/awnumar/memguard"
	"golang.org/x/sync/errgroup"
)

// Recipient is an identity a payload is encrypted for.
type Recipient struct {
	Email     string `json:"email"`
	PublicKey string `json:"publicKey"`
}

// Result holds the two artifacts of an encryption run.
type Result struct {
	Payload  []byte
	Manifest *manifest.Manifest
}

type parsedRecipient struct {
	email     string
	publicKey *[secrets.KeySize]byte
}

// validateRecipients checks the list before any key material is generated.
func validateRecipients(recipients []Recipient) ([]parsedRecipient, error) {
	if len(recipients) == 0 {
		return nil, kerrors.ErrNoRecipients
	}

	parsed := make([]parsedRecipient, 0, len(recipients))
	seen := make(map[string]bool, len(recipients))
	for i, recipient := range recipients {
		email := utils.NormalizeEmail(recipient.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: recipient %d has no email", kerrors.ErrInvalidRecipient, i)
		}
		if !utils.IsValidEmail(email) {
			return nil, fmt.Errorf("%w: %q is not a valid email", kerrors.ErrInvalidRecipient, recipient.Email)
		}
		if seen[email] {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrDuplicateRecipient, email)
		}
		seen[email] = true

		publicKey, err := secrets.ParsePublicKey(recipient.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidRecipient, recipient.Email, err)
		}
		parsed = append(parsed, parsedRecipient{email: strings.TrimSpace(recipient.Email), publicKey: publicKey})
	}
	return parsed, nil
}

// Encrypt seals plaintext for every recipient.
//
// Errors returned:
//   - ErrNoRecipients if recipients is empty.
//   - ErrDuplicateRecipient if two recipients share an email, ignoring case.
//   - ErrInvalidRecipient if an email is empty or a public key is not 32 bytes of base64.
//
// Nothing is returned on error.
func Encrypt(plaintext []byte, recipients []Recipient, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	parsed, err := validateRecipients(recipients)
	if err != nil {
		return nil, err
	}

	fileKey, err := secrets.CreateFileKey()
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(fileKey[:])

	payload, err := secrets.SealPayload(fileKey, plaintext)
	if err != nil {
		return nil, err
	}

	entries := make([]manifest.Entry, len(parsed))
	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, recipient := range parsed {
		i, recipient := i, recipient
		g.Go(func() error {
			wrapped, err := secrets.WrapFileKey(fileKey, recipient.publicKey)
			if err != nil {
				return fmt.Errorf("%s: %w", recipient.email, err)
			}
			entries[i] = manifest.Entry{
				Email:      recipient.email,
				PublicKey:  secrets.EncodePublicKey(recipient.publicKey),
				WrappedKey: secrets.EncodeBase64(wrapped),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Payload: payload,
		Manifest: &manifest.Manifest{
			Version:    manifest.Version,
			ProjectID:  o.projectID,
			Algo:       manifest.AlgoXSalsa20Poly1305,
			Recipients: entries,
		},
	}, nil
}

// Decrypt recovers the plaintext for the recipient identified by email.
//
// Errors returned:
//   - ErrRecipientNotFound if the manifest has no entry for email.
//   - ErrManifestCorrupt if it has more than one.
//   - ErrUnwrapFailed if the entry cannot be opened with keypair.
//   - ErrPayloadCorrupt if the payload fails authentication.
func Decrypt(payload []byte, m *manifest.Manifest, email string, keypair *secrets.Keypair) ([]byte, error) {
	entry, err := m.Lookup(email)
	if err != nil {
		return nil, err
	}

	wrapped, err := secrets.DecodeBase64(entry.WrappedKey)
	if err != nil {
		return nil, kerrors.ErrUnwrapFailed
	}

	fileKey, err := secrets.UnwrapFileKey(wrapped, keypair)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(fileKey[:])

	return secrets.OpenPayload(fileKey, payload)
}
