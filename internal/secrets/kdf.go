package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/ripenv/ripenv/internal/errors"

	"golang.org/x/crypto/argon2"
)

// KDFArgon2id is the only key derivation tag ripenv keyfiles may carry.
const KDFArgon2id = "argon2id"

const (
	// SaltSize is the length of the per-keypair Argon2id salt.
	SaltSize = 16

	// KeySize is the length of every symmetric key and X25519 key.
	KeySize = 32
)

// Argon2id parameters. They must match the web client, which runs the KDF in
// WASM, so they are modest on purpose. Changing them breaks every keyfile.
const (
	argonTime    uint32 = 2
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// GenerateSalt returns a fresh random salt for a new keyfile.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKEK turns a password and salt into the key-encrypting key that
// protects a private key at rest.
func DeriveKEK(password []byte, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", kerrors.ErrConfiguration, SaltSize, len(salt))
	}
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize), nil
}

// CheckKDF verifies a keyfile's kdf tag is supported.
func CheckKDF(tag string) error {
	if tag != KDFArgon2id {
		return fmt.Errorf("%w: unsupported kdf %q", kerrors.ErrConfiguration, tag)
	}
	return nil
}
