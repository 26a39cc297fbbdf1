package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/utils"
)

const recordExt = ".json"

// Record is a registered identity.
type Record struct {
	Email        string    `json:"email"`
	PublicKey    string    `json:"publicKey"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Directory is a key directory rooted at Path.
type Directory struct {
	Path string

	// now is overridden in tests.
	now func() time.Time
}

// New returns a Directory rooted at path.
func New(path string) *Directory {
	return &Directory{Path: path, now: time.Now}
}

func (d *Directory) recordPath(email string) string {
	return filepath.Join(d.Path, email+recordExt)
}

func (d *Directory) timestamp() time.Time {
	if d.now == nil {
		return time.Now().UTC()
	}
	return d.now().UTC()
}

// Register stores publicKey under email, replacing any existing record.
// Returns ErrInvalidEmail or ErrInvalidRecipient for unusable input.
func (d *Directory) Register(email, publicKey string) (*Record, error) {
	normalized := utils.NormalizeEmail(email)
	if !utils.IsValidEmail(normalized) {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, email)
	}
	key, err := secrets.ParsePublicKey(strings.TrimSpace(publicKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidRecipient, normalized, err)
	}

	record := &Record{
		Email:        normalized,
		PublicKey:    secrets.EncodePublicKey(key),
		RegisteredAt: d.timestamp(),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode record for %s: %w", normalized, err)
	}

	pending := []utils.PendingFile{{Path: d.recordPath(normalized), Data: append(data, '\n'), Perm: 0644}}
	if err := utils.WriteFilesAtomically(pending, true); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the record for email. Returns ErrUserNotFound if none exists.
func (d *Directory) Get(email string) (*Record, error) {
	normalized := utils.NormalizeEmail(email)
	if !utils.IsValidEmail(normalized) {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, email)
	}

	data, err := os.ReadFile(d.recordPath(normalized))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, normalized)
		}
		return nil, fmt.Errorf("failed to read record for %s: %w", normalized, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record for %s: %w", normalized, err)
	}
	return &record, nil
}

// PublicKey returns the registered public key for email.
func (d *Directory) PublicKey(email string) (string, error) {
	record, err := d.Get(email)
	if err != nil {
		return "", err
	}
	return record.PublicKey, nil
}

// List returns every record sorted by email. A missing directory is empty.
func (d *Directory) List() ([]Record, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read key directory %s: %w", d.Path, err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExt) || strings.HasPrefix(name, ".") {
			continue
		}
		email := strings.TrimSuffix(name, recordExt)
		if !utils.IsValidEmail(email) {
			continue
		}
		record, err := d.Get(email)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Email < records[j].Email
	})
	return records, nil
}

// Remove deletes the record for email. Returns ErrUserNotFound if none exists.
func (d *Directory) Remove(email string) error {
	normalized := utils.NormalizeEmail(email)
	if !utils.IsValidEmail(normalized) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, email)
	}
	if err := os.Remove(d.recordPath(normalized)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, normalized)
		}
		return fmt.Errorf("failed to remove record for %s: %w", normalized, err)
	}
	return nil
}
