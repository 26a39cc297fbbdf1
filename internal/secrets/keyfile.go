package secrets

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"os"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/awnumar/memguard"
	"github.com/hashicorp/go-multierror"
)

// DefaultKeyfileName is the filename init writes when none is given.
const DefaultKeyfileName = "mykey.enc.json"

// Keyfile is the exported, password-protected form of an identity keypair.
type Keyfile struct {
	PublicKey     string `json:"publicKey"`
	EncPrivateKey string `json:"encPrivateKey"`
	Salt          string `json:"salt"`
	KDF           string `json:"kdf"`
}

// NewKeyfile generates a keypair and locks its private half under a KEK
// derived from password with a fresh salt. The returned keypair is still
// unlocked; callers should Wipe it when done.
func NewKeyfile(password []byte) (*Keyfile, *Keypair, error) {
	keypair, err := GenerateKeypair()
	if err != nil {
		return nil, nil, err
	}

	salt, err := GenerateSalt()
	if err != nil {
		keypair.Wipe()
		return nil, nil, err
	}

	kek, err := DeriveKEK(password, salt)
	if err != nil {
		keypair.Wipe()
		return nil, nil, err
	}
	defer memguard.WipeBytes(kek)

	encPrivateKey, err := LockPrivateKey(keypair.PrivateKey, kek)
	if err != nil {
		keypair.Wipe()
		return nil, nil, err
	}

	return &Keyfile{
		PublicKey:     EncodePublicKey(keypair.PublicKey),
		EncPrivateKey: encPrivateKey,
		Salt:          EncodeBase64(salt),
		KDF:           KDFArgon2id,
	}, keypair, nil
}

// ParseKeyfile decodes and validates a keyfile document. Unknown fields are rejected.
func ParseKeyfile(data []byte) (*Keyfile, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var keyfile Keyfile
	if err := decoder.Decode(&keyfile); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyfile, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after keyfile object", kerrors.ErrInvalidKeyfile)
	}

	if err := keyfile.Validate(); err != nil {
		return nil, err
	}
	return &keyfile, nil
}

// Validate checks the keyfile structure without touching the password.
func (k *Keyfile) Validate() error {
	var result *multierror.Error
	if k.PublicKey == "" {
		result = multierror.Append(result, fmt.Errorf("publicKey is empty"))
	} else if _, err := ParsePublicKey(k.PublicKey); err != nil {
		result = multierror.Append(result, err)
	}
	if k.EncPrivateKey == "" {
		result = multierror.Append(result, fmt.Errorf("encPrivateKey is empty"))
	}
	if k.Salt == "" {
		result = multierror.Append(result, fmt.Errorf("salt is empty"))
	}
	if k.KDF == "" {
		result = multierror.Append(result, fmt.Errorf("kdf is empty"))
	}
	if result != nil {
		result.ErrorFormat = utils.JoinErrors
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyfile, result)
	}

	if err := CheckKDF(k.KDF); err != nil {
		return err
	}
	salt, err := DecodeBase64(k.Salt)
	if err != nil {
		return fmt.Errorf("%w: salt is not valid base64", kerrors.ErrConfiguration)
	}
	if len(salt) != SaltSize {
		return fmt.Errorf("%w: salt must be %d bytes, got %d", kerrors.ErrConfiguration, SaltSize, len(salt))
	}
	return nil
}

// Unlock derives the KEK from password and recovers the keypair. The public
// key recomputed from the unlocked private key must match the keyfile's, so
// a keyfile whose halves were swapped fails the same way a wrong password does.
func (k *Keyfile) Unlock(password []byte) (*Keypair, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	salt, _ := DecodeBase64(k.Salt)
	kek, err := DeriveKEK(password, salt)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	privateKey, err := UnlockPrivateKey(k.EncPrivateKey, kek)
	if err != nil {
		return nil, err
	}

	keypair, err := KeypairFromPrivateKey(privateKey)
	if err != nil {
		memguard.WipeBytes(privateKey[:])
		return nil, kerrors.ErrInvalidPassword
	}

	recorded, _ := ParsePublicKey(k.PublicKey)
	if subtle.ConstantTimeCompare(recorded[:], keypair.PublicKey[:]) != 1 {
		keypair.Wipe()
		return nil, kerrors.ErrInvalidPassword
	}
	return keypair, nil
}

// Marshal renders the keyfile as indented JSON.
func (k *Keyfile) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode keyfile: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadKeyfile reads and validates a keyfile from disk.
func LoadKeyfile(path string) (*Keyfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read keyfile at %s: %w", path, err)
	}
	return ParseKeyfile(data)
}

// Save writes the keyfile with owner-only permissions.
func (k *Keyfile) Save(path string, force bool) error {
	data, err := k.Marshal()
	if err != nil {
		return err
	}
	return utils.WriteFilesAtomically([]utils.PendingFile{{Path: path, Data: data, Perm: 0600}}, force)
}
