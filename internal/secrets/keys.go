package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	kerrors "github.com/ripenv/ripenv/internal/errors"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// Keypair is a user's long-term X25519 identity.
type Keypair struct {
	PublicKey  *[KeySize]byte
	PrivateKey *[KeySize]byte
}

// GenerateKeypair creates a new identity keypair.
func GenerateKeypair() (*Keypair, error) {
	publicKey, privateKey, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return &Keypair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// KeypairFromPrivateKey rebuilds a keypair by recomputing the public half.
func KeypairFromPrivateKey(privateKey *[KeySize]byte) (*Keypair, error) {
	publicBytes, err := curve25519.X25519(privateKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	publicKey := new([KeySize]byte)
	copy(publicKey[:], publicBytes)
	return &Keypair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// Wipe zeroes the private key. The keypair must not be used afterwards.
func (k *Keypair) Wipe() {
	if k != nil && k.PrivateKey != nil {
		memguard.WipeBytes(k.PrivateKey[:])
	}
}

// EncodePublicKey returns the base64 form of a public key.
func EncodePublicKey(publicKey *[KeySize]byte) string {
	return EncodeBase64(publicKey[:])
}

// ParsePublicKey decodes a base64 public key and checks its length.
func ParsePublicKey(encoded string) (*[KeySize]byte, error) {
	raw, err := DecodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("public key is not valid base64: %w", err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", KeySize, len(raw))
	}
	publicKey := new([KeySize]byte)
	copy(publicKey[:], raw)
	return publicKey, nil
}

// Fingerprint returns a short, stable identifier for a public key, for display only.
func Fingerprint(publicKey *[KeySize]byte) string {
	sum := sha256.Sum256(publicKey[:])
	return hex.EncodeToString(sum[:8])
}

// LockPrivateKey encrypts a private key under a key-encrypting key.
// It returns base64(nonce || ciphertext).
func LockPrivateKey(privateKey *[KeySize]byte, kek []byte) (string, error) {
	if len(kek) != KeySize {
		return "", fmt.Errorf("%w: key-encrypting key must be %d bytes, got %d", kerrors.ErrConfiguration, KeySize, len(kek))
	}
	var key [KeySize]byte
	copy(key[:], kek)
	defer memguard.WipeBytes(key[:])

	sealed, err := sealSecretbox(&key, privateKey[:])
	if err != nil {
		return "", fmt.Errorf("failed to lock private key: %w", err)
	}
	return EncodeBase64(sealed), nil
}

// UnlockPrivateKey reverses LockPrivateKey. A wrong key, a damaged encoding
// and a failed authenticator are all reported as ErrInvalidPassword with no
// further detail.
func UnlockPrivateKey(encPrivateKey string, kek []byte) (*[KeySize]byte, error) {
	if len(kek) != KeySize {
		return nil, fmt.Errorf("%w: key-encrypting key must be %d bytes, got %d", kerrors.ErrConfiguration, KeySize, len(kek))
	}
	sealed, err := DecodeBase64(encPrivateKey)
	if err != nil {
		return nil, kerrors.ErrInvalidPassword
	}

	var key [KeySize]byte
	copy(key[:], kek)
	defer memguard.WipeBytes(key[:])

	opened, ok := openSecretbox(&key, sealed)
	if !ok {
		return nil, kerrors.ErrInvalidPassword
	}
	defer memguard.WipeBytes(opened)

	if len(opened) != KeySize {
		return nil, kerrors.ErrInvalidPassword
	}
	privateKey := new([KeySize]byte)
	copy(privateKey[:], opened)
	return privateKey, nil
}
