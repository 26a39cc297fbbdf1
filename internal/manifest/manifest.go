package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultFilename is the name the manifest is written under next to .env.enc.
	DefaultFilename = "ripenv.manifest.json"

	// Version is the only manifest version this build reads and writes.
	Version = 1

	// AlgoXSalsa20Poly1305 names the payload cipher.
	AlgoXSalsa20Poly1305 = "xsalsa20poly1305"
)

// Entry is one recipient's record in a manifest.
type Entry struct {
	Email      string `json:"email"`
	PublicKey  string `json:"publicKey"`
	WrappedKey string `json:"wrappedKey"`
}

// Manifest is the parsed form of ripenv.manifest.json.
type Manifest struct {
	Version    int     `json:"version"`
	ProjectID  string  `json:"projectId,omitempty"`
	Algo       string  `json:"algo,omitempty"`
	Recipients []Entry `json:"recipients"`
}

// document mirrors Manifest with a pointer version so a missing field can be
// told apart from an explicit zero.
type document struct {
	Version    *int    `json:"version"`
	ProjectID  string  `json:"projectId,omitempty"`
	Algo       string  `json:"algo,omitempty"`
	Recipients []Entry `json:"recipients"`
}

// Serialize renders m in canonical form. It refuses to write anything Parse
// would reject.
func Serialize(m *Manifest) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: manifest is nil", kerrors.ErrManifestMalformed)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Parse decodes and validates a manifest. No partial manifest is returned on error.
func Parse(data []byte) (*Manifest, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrManifestMalformed, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after manifest object", kerrors.ErrManifestMalformed)
	}
	if doc.Version == nil {
		return nil, fmt.Errorf("%w: version is missing", kerrors.ErrManifestMalformed)
	}

	m := &Manifest{
		Version:    *doc.Version,
		ProjectID:  doc.ProjectID,
		Algo:       doc.Algo,
		Recipients: doc.Recipients,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks structure first and, only when the structure is sound,
// that no email appears twice.
func (m *Manifest) Validate() error {
	var result *multierror.Error

	if m.Version != Version {
		result = multierror.Append(result, fmt.Errorf("unsupported version %d", m.Version))
	}
	if m.Algo != "" && m.Algo != AlgoXSalsa20Poly1305 {
		result = multierror.Append(result, fmt.Errorf("unsupported algo %q", m.Algo))
	}
	if len(m.Recipients) == 0 {
		result = multierror.Append(result, fmt.Errorf("recipients is empty"))
	}

	for i, entry := range m.Recipients {
		if entry.Email == "" {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].email is empty", i))
		} else if !utils.IsValidEmail(entry.Email) {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].email %q is not a valid email", i, entry.Email))
		}
		if entry.PublicKey == "" {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].publicKey is empty", i))
		} else if _, err := secrets.ParsePublicKey(entry.PublicKey); err != nil {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].publicKey: %v", i, err))
		}
		if entry.WrappedKey == "" {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].wrappedKey is empty", i))
		} else if _, err := secrets.DecodeBase64(entry.WrappedKey); err != nil {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].wrappedKey is not valid base64", i))
		}
	}

	if result != nil {
		result.ErrorFormat = utils.JoinErrors
		return fmt.Errorf("%w: %v", kerrors.ErrManifestMalformed, result)
	}

	seen := make(map[string]int, len(m.Recipients))
	for i, entry := range m.Recipients {
		email := utils.NormalizeEmail(entry.Email)
		if first, ok := seen[email]; ok {
			return fmt.Errorf("%w: recipients[%d] and recipients[%d] share email %s", kerrors.ErrManifestCorrupt, first, i, email)
		}
		seen[email] = i
	}
	return nil
}

// Lookup finds the entry for email, compared case-insensitively.
// Returns ErrRecipientNotFound or, for more than one match, ErrManifestCorrupt.
func (m *Manifest) Lookup(email string) (*Entry, error) {
	wanted := utils.NormalizeEmail(email)

	var found *Entry
	for i := range m.Recipients {
		if utils.NormalizeEmail(m.Recipients[i].Email) != wanted {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: more than one entry for %s", kerrors.ErrManifestCorrupt, wanted)
		}
		found = &m.Recipients[i]
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrRecipientNotFound, email)
	}
	return found, nil
}

// Emails returns the recipient emails in manifest order.
func (m *Manifest) Emails() []string {
	emails := make([]string, 0, len(m.Recipients))
	for _, entry := range m.Recipients {
		emails = append(emails, entry.Email)
	}
	return emails
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return Parse(data)
}

// Save serializes m to path.
func Save(m *Manifest, path string, force bool) error {
	data, err := Serialize(m)
	if err != nil {
		return err
	}
	return utils.WriteFilesAtomically([]utils.PendingFile{{Path: path, Data: data, Perm: 0644}}, force)
}
