package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/ripenv/ripenv/internal/errors"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

// NonceSize is the length of the secretbox nonce prepended to every ciphertext.
const NonceSize = 24

// minPayloadSize is a nonce followed by an empty message's authenticator.
const minPayloadSize = NonceSize + secretbox.Overhead

// CreateFileKey generates a new random file key.
func CreateFileKey() (*[KeySize]byte, error) {
	key := new([KeySize]byte)
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate file key: %w", err)
	}
	return key, nil
}

// sealSecretbox encrypts message under key and returns nonce || ciphertext.
func sealSecretbox(key *[KeySize]byte, message []byte) ([]byte, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	defer memguard.WipeBytes(nonce[:])

	return secretbox.Seal(nonce[:], message, &nonce, key), nil
}

// openSecretbox splits nonce || ciphertext and authenticates it under key.
func openSecretbox(key *[KeySize]byte, data []byte) ([]byte, bool) {
	if len(data) < minPayloadSize {
		return nil, false
	}
	var nonce [NonceSize]byte
	copy(nonce[:], data[:NonceSize])
	return secretbox.Open(nil, data[NonceSize:], &nonce, key)
}

// SealPayload encrypts the plaintext .env content under the file key.
// The result is the binary .env.enc format: nonce(24) || ciphertext.
func SealPayload(fileKey *[KeySize]byte, plaintext []byte) ([]byte, error) {
	payload, err := sealSecretbox(fileKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return payload, nil
}

// OpenPayload decrypts a .env.enc payload. Any failure, including a payload
// too short to hold a nonce, is reported as ErrPayloadCorrupt.
func OpenPayload(fileKey *[KeySize]byte, payload []byte) ([]byte, error) {
	if len(payload) < minPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, need at least %d", kerrors.ErrPayloadCorrupt, len(payload), minPayloadSize)
	}
	plaintext, ok := openSecretbox(fileKey, payload)
	if !ok {
		return nil, kerrors.ErrPayloadCorrupt
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// WrapFileKey seals the file key to a recipient's public key with an
// ephemeral sender keypair (NaCl sealed box). The ephemeral private key is
// discarded by box.SealAnonymous.
func WrapFileKey(fileKey *[KeySize]byte, recipient *[KeySize]byte) ([]byte, error) {
	wrapped, err := box.SealAnonymous(nil, fileKey[:], recipient, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap file key: %w", err)
	}
	return wrapped, nil
}

// UnwrapFileKey opens a wrapped file key with the caller's keypair. A wrong
// private key and a tampered wrap both yield ErrUnwrapFailed.
func UnwrapFileKey(wrapped []byte, keypair *Keypair) (*[KeySize]byte, error) {
	opened, ok := box.OpenAnonymous(nil, wrapped, keypair.PublicKey, keypair.PrivateKey)
	if !ok {
		return nil, kerrors.ErrUnwrapFailed
	}
	defer memguard.WipeBytes(opened)

	if len(opened) != KeySize {
		return nil, kerrors.ErrUnwrapFailed
	}
	fileKey := new([KeySize]byte)
	copy(fileKey[:], opened)
	return fileKey, nil
}
