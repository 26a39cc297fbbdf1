package secrets

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/ripenv/ripenv/internal/errors"
)

func TestNewKeyfileUnlock(t *testing.T) {
	keyfile, keypair, err := NewKeyfile([]byte("hunter2"))
	if err != nil {
		t.Fatalf("NewKeyfile failed: %v", err)
	}
	if keyfile.KDF != KDFArgon2id {
		t.Errorf("KDF = %q, expected %q", keyfile.KDF, KDFArgon2id)
	}
	if keyfile.PublicKey != EncodePublicKey(keypair.PublicKey) {
		t.Error("Keyfile public key does not match generated keypair")
	}

	t.Run("CorrectPassword", func(t *testing.T) {
		unlocked, err := keyfile.Unlock([]byte("hunter2"))
		if err != nil {
			t.Fatalf("Unlock failed: %v", err)
		}
		if *unlocked.PrivateKey != *keypair.PrivateKey {
			t.Error("Unlocked private key does not match")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := keyfile.Unlock([]byte("hunter3"))
		if !errors.Is(err, kerrors.ErrInvalidPassword) {
			t.Errorf("Expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("SwappedPublicKey", func(t *testing.T) {
		other, _ := GenerateKeypair()
		swapped := *keyfile
		swapped.PublicKey = EncodePublicKey(other.PublicKey)
		_, err := swapped.Unlock([]byte("hunter2"))
		if !errors.Is(err, kerrors.ErrInvalidPassword) {
			t.Errorf("Expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("UnsupportedKDF", func(t *testing.T) {
		scrypt := *keyfile
		scrypt.KDF = "scrypt"
		if _, err := scrypt.Unlock([]byte("hunter2")); !errors.Is(err, kerrors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("WrongSaltSize", func(t *testing.T) {
		salted := *keyfile
		salted.Salt = EncodeBase64(make([]byte, 8))
		if _, err := salted.Unlock([]byte("hunter2")); !errors.Is(err, kerrors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})
}

func TestParseKeyfile(t *testing.T) {
	keyfile, _, err := NewKeyfile([]byte("pw"))
	if err != nil {
		t.Fatalf("NewKeyfile failed: %v", err)
	}
	data, err := keyfile.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	t.Run("RoundTrip", func(t *testing.T) {
		parsed, err := ParseKeyfile(data)
		if err != nil {
			t.Fatalf("ParseKeyfile failed: %v", err)
		}
		if *parsed != *keyfile {
			t.Errorf("Parsed keyfile = %+v, expected %+v", parsed, keyfile)
		}
	})

	t.Run("IndentedWithNewline", func(t *testing.T) {
		if !strings.HasPrefix(string(data), "{\n  \"publicKey\"") {
			t.Errorf("Unexpected layout: %q", data)
		}
		if !strings.HasSuffix(string(data), "}\n") {
			t.Error("Expected trailing newline")
		}
	})

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	encode := func(mutate func(map[string]string)) []byte {
		copied := make(map[string]string, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		mutate(copied)
		out, _ := json.Marshal(copied)
		return out
	}

	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{"NotJSON", []byte("not json"), kerrors.ErrInvalidKeyfile},
		{"EmptyObject", []byte("{}"), kerrors.ErrInvalidKeyfile},
		{"UnknownField", encode(func(m map[string]string) { m["extra"] = "x" }), kerrors.ErrInvalidKeyfile},
		{"MissingSalt", encode(func(m map[string]string) { delete(m, "salt") }), kerrors.ErrInvalidKeyfile},
		{"BadPublicKey", encode(func(m map[string]string) { m["publicKey"] = EncodeBase64([]byte("short")) }), kerrors.ErrInvalidKeyfile},
		{"TrailingData", append(append([]byte(nil), data...), []byte(`{"a":1}`)...), kerrors.ErrInvalidKeyfile},
		{"UnknownKDF", encode(func(m map[string]string) { m["kdf"] = "bcrypt" }), kerrors.ErrConfiguration},
		{"ShortSalt", encode(func(m map[string]string) { m["salt"] = EncodeBase64(make([]byte, 15)) }), kerrors.ErrConfiguration},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseKeyfile(tc.input)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestKeyfileSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultKeyfileName)

	keyfile, _, err := NewKeyfile([]byte("pw"))
	if err != nil {
		t.Fatalf("NewKeyfile failed: %v", err)
	}
	if err := keyfile.Save(path, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Keyfile permissions = %o, expected 600", info.Mode().Perm())
	}

	loaded, err := LoadKeyfile(path)
	if err != nil {
		t.Fatalf("LoadKeyfile failed: %v", err)
	}
	if *loaded != *keyfile {
		t.Error("Loaded keyfile differs from saved keyfile")
	}

	if err := keyfile.Save(path, false); !errors.Is(err, kerrors.ErrFileExists) {
		t.Errorf("Expected ErrFileExists on second save, got %v", err)
	}
	if err := keyfile.Save(path, true); err != nil {
		t.Errorf("Expected forced save to succeed, got %v", err)
	}

	if _, err := LoadKeyfile(filepath.Join(dir, "missing.json")); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}
