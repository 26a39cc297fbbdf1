package recipients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ripenv/ripenv/internal/envelope"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/hashicorp/go-multierror"
)

// Export is a project's recipient list.
type Export struct {
	ProjectID  string               `json:"projectId"`
	Recipients []envelope.Recipient `json:"recipients"`
}

// ParseExport decodes and validates a recipients export. Every violation is
// reported together as ErrInvalidRecipientsExport; a repeated email is
// ErrDuplicateRecipient.
func ParseExport(data []byte) (*Export, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var export Export
	if err := decoder.Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidRecipientsExport, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after export object", kerrors.ErrInvalidRecipientsExport)
	}

	if err := export.Validate(); err != nil {
		return nil, err
	}
	if export.Recipients == nil {
		export.Recipients = []envelope.Recipient{}
	}
	return &export, nil
}

// Validate checks the export's fields.
func (e *Export) Validate() error {
	var result *multierror.Error

	if e.ProjectID == "" {
		result = multierror.Append(result, fmt.Errorf("projectId is empty"))
	}
	for i, recipient := range e.Recipients {
		if !utils.IsValidEmail(recipient.Email) {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].email %q is not a valid email", i, recipient.Email))
		}
		if _, err := secrets.ParsePublicKey(recipient.PublicKey); err != nil {
			result = multierror.Append(result, fmt.Errorf("recipients[%d].publicKey: %v", i, err))
		}
	}
	if result != nil {
		result.ErrorFormat = utils.JoinErrors
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidRecipientsExport, result)
	}

	seen := make(map[string]bool, len(e.Recipients))
	for _, recipient := range e.Recipients {
		email := utils.NormalizeEmail(recipient.Email)
		if seen[email] {
			return fmt.Errorf("%w: %s", kerrors.ErrDuplicateRecipient, email)
		}
		seen[email] = true
	}
	return nil
}

// LoadExport reads and parses an export file.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read recipients export at %s: %w", path, err)
	}
	return ParseExport(data)
}

// WriteExport validates export and writes it to path.
func WriteExport(export *Export, path string, force bool) error {
	if err := export.Validate(); err != nil {
		return err
	}
	if export.Recipients == nil {
		export.Recipients = []envelope.Recipient{}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recipients export: %w", err)
	}
	return utils.WriteFilesAtomically([]utils.PendingFile{{Path: path, Data: append(data, '\n'), Perm: 0644}}, force)
}
