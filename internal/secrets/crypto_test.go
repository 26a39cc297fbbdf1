package secrets

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	kerrors "github.com/ripenv/ripenv/internal/errors"

	"golang.org/x/crypto/nacl/box"
)

func TestSealOpenPayload(t *testing.T) {
	fileKey, err := CreateFileKey()
	if err != nil {
		t.Fatalf("CreateFileKey failed: %v", err)
	}
	plaintext := []byte("DB_URL=postgres://x\nAPI_KEY=abc123\n")

	t.Run("RoundTrip", func(t *testing.T) {
		payload, err := SealPayload(fileKey, plaintext)
		if err != nil {
			t.Fatalf("SealPayload failed: %v", err)
		}
		if len(payload) != NonceSize+len(plaintext)+16 {
			t.Errorf("Payload length = %d, expected %d", len(payload), NonceSize+len(plaintext)+16)
		}
		opened, err := OpenPayload(fileKey, payload)
		if err != nil {
			t.Fatalf("OpenPayload failed: %v", err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Errorf("Opened payload = %q, expected %q", opened, plaintext)
		}
	})

	t.Run("EmptyPlaintext", func(t *testing.T) {
		payload, err := SealPayload(fileKey, []byte{})
		if err != nil {
			t.Fatalf("SealPayload failed: %v", err)
		}
		if len(payload) != minPayloadSize {
			t.Errorf("Payload length = %d, expected %d", len(payload), minPayloadSize)
		}
		opened, err := OpenPayload(fileKey, payload)
		if err != nil {
			t.Fatalf("OpenPayload failed: %v", err)
		}
		if opened == nil || len(opened) != 0 {
			t.Errorf("Expected empty non-nil plaintext, got %v", opened)
		}
	})

	t.Run("FreshNonce", func(t *testing.T) {
		first, _ := SealPayload(fileKey, plaintext)
		second, _ := SealPayload(fileKey, plaintext)
		if bytes.Equal(first[:NonceSize], second[:NonceSize]) {
			t.Error("Expected distinct nonces")
		}
	})

	payload, err := SealPayload(fileKey, plaintext)
	if err != nil {
		t.Fatalf("SealPayload failed: %v", err)
	}

	t.Run("DetectsEveryFlippedByte", func(t *testing.T) {
		for i := range payload {
			tampered := append([]byte(nil), payload...)
			tampered[i] ^= 0x80
			if _, err := OpenPayload(fileKey, tampered); !errors.Is(err, kerrors.ErrPayloadCorrupt) {
				t.Fatalf("byte %d: expected ErrPayloadCorrupt, got %v", i, err)
			}
		}
	})

	t.Run("RejectsShortPayload", func(t *testing.T) {
		for _, size := range []int{0, 10, NonceSize, minPayloadSize - 1} {
			if _, err := OpenPayload(fileKey, make([]byte, size)); !errors.Is(err, kerrors.ErrPayloadCorrupt) {
				t.Errorf("size %d: expected ErrPayloadCorrupt, got %v", size, err)
			}
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		other, _ := CreateFileKey()
		if _, err := OpenPayload(other, payload); !errors.Is(err, kerrors.ErrPayloadCorrupt) {
			t.Errorf("Expected ErrPayloadCorrupt, got %v", err)
		}
	})
}

func TestWrapUnwrapFileKey(t *testing.T) {
	fileKey, err := CreateFileKey()
	if err != nil {
		t.Fatalf("CreateFileKey failed: %v", err)
	}
	alice, _ := GenerateKeypair()
	bob, _ := GenerateKeypair()

	wrapped, err := WrapFileKey(fileKey, alice.PublicKey)
	if err != nil {
		t.Fatalf("WrapFileKey failed: %v", err)
	}

	t.Run("RecipientOpens", func(t *testing.T) {
		unwrapped, err := UnwrapFileKey(wrapped, alice)
		if err != nil {
			t.Fatalf("UnwrapFileKey failed: %v", err)
		}
		if *unwrapped != *fileKey {
			t.Error("Unwrapped key does not match")
		}
	})

	t.Run("OtherKeypairFails", func(t *testing.T) {
		if _, err := UnwrapFileKey(wrapped, bob); !errors.Is(err, kerrors.ErrUnwrapFailed) {
			t.Errorf("Expected ErrUnwrapFailed, got %v", err)
		}
	})

	t.Run("TamperedWrapFails", func(t *testing.T) {
		tampered := append([]byte(nil), wrapped...)
		tampered[len(tampered)-1] ^= 0x01
		if _, err := UnwrapFileKey(tampered, alice); !errors.Is(err, kerrors.ErrUnwrapFailed) {
			t.Errorf("Expected ErrUnwrapFailed, got %v", err)
		}
	})

	t.Run("WrongLengthFails", func(t *testing.T) {
		short, err := boxSealForTest(alice, []byte("short"))
		if err != nil {
			t.Fatalf("seal failed: %v", err)
		}
		if _, err := UnwrapFileKey(short, alice); !errors.Is(err, kerrors.ErrUnwrapFailed) {
			t.Errorf("Expected ErrUnwrapFailed, got %v", err)
		}
	})

	t.Run("WrapsAreIndependent", func(t *testing.T) {
		again, _ := WrapFileKey(fileKey, alice.PublicKey)
		if bytes.Equal(again, wrapped) {
			t.Error("Expected each wrap to use a fresh ephemeral key")
		}
	})
}

func boxSealForTest(recipient *Keypair, message []byte) ([]byte, error) {
	return box.SealAnonymous(nil, message, recipient.PublicKey, rand.Reader)
}
