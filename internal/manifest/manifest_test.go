package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/secrets"
)

func testEntry(t *testing.T, email string) Entry {
	t.Helper()
	keypair, err := secrets.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	fileKey, err := secrets.CreateFileKey()
	if err != nil {
		t.Fatalf("CreateFileKey failed: %v", err)
	}
	wrapped, err := secrets.WrapFileKey(fileKey, keypair.PublicKey)
	if err != nil {
		t.Fatalf("WrapFileKey failed: %v", err)
	}
	return Entry{
		Email:      email,
		PublicKey:  secrets.EncodePublicKey(keypair.PublicKey),
		WrappedKey: secrets.EncodeBase64(wrapped),
	}
}

func testManifest(t *testing.T, emails ...string) *Manifest {
	t.Helper()
	m := &Manifest{Version: Version, ProjectID: "acme-api", Algo: AlgoXSalsa20Poly1305}
	for _, email := range emails {
		m.Recipients = append(m.Recipients, testEntry(t, email))
	}
	return m
}

func TestSerializeParseRoundTrip(t *testing.T) {
	m := testManifest(t, "zed@example.com", "alice@example.com", "bob@example.com")

	data, err := Serialize(m)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Version != m.Version || parsed.ProjectID != m.ProjectID || parsed.Algo != m.Algo {
		t.Errorf("Header mismatch: %+v vs %+v", parsed, m)
	}
	if len(parsed.Recipients) != len(m.Recipients) {
		t.Fatalf("Recipient count = %d, expected %d", len(parsed.Recipients), len(m.Recipients))
	}
	for i := range m.Recipients {
		if parsed.Recipients[i] != m.Recipients[i] {
			t.Errorf("recipients[%d] = %+v, expected %+v", i, parsed.Recipients[i], m.Recipients[i])
		}
	}

	again, err := Serialize(parsed)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("Re-serialized manifest differs from original bytes")
	}
}

func TestSerializeCanonicalLayout(t *testing.T) {
	m := testManifest(t, "alice@example.com")
	data, err := Serialize(m)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	text := string(data)

	order := []string{`"version": 1`, `"projectId"`, `"algo"`, `"recipients"`, `"email"`, `"publicKey"`, `"wrappedKey"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx < 0 {
			t.Fatalf("Missing %s in %s", key, text)
		}
		if idx < last {
			t.Errorf("%s is out of canonical order", key)
		}
		last = idx
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("Expected trailing newline")
	}

	m.ProjectID = ""
	m.Algo = ""
	data, err = Serialize(m)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(string(data), "projectId") || strings.Contains(string(data), "algo") {
		t.Errorf("Expected empty optional fields to be omitted: %s", data)
	}
}

func TestSerializeRejectsInvalid(t *testing.T) {
	m := testManifest(t, "alice@example.com")
	m.Recipients[0].WrappedKey = ""
	if _, err := Serialize(m); !errors.Is(err, kerrors.ErrManifestMalformed) {
		t.Errorf("Expected ErrManifestMalformed, got %v", err)
	}
	if _, err := Serialize(nil); !errors.Is(err, kerrors.ErrManifestMalformed) {
		t.Errorf("Expected ErrManifestMalformed for nil manifest, got %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	entry := testEntry(t, "alice@example.com")
	valid := `{"email":"alice@example.com","publicKey":"` + entry.PublicKey + `","wrappedKey":"` + entry.WrappedKey + `"}`

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"NotJSON", `nope`, kerrors.ErrManifestMalformed},
		{"MissingVersion", `{"recipients":[` + valid + `]}`, kerrors.ErrManifestMalformed},
		{"WrongVersion", `{"version":2,"recipients":[` + valid + `]}`, kerrors.ErrManifestMalformed},
		{"StringVersion", `{"version":"1","recipients":[` + valid + `]}`, kerrors.ErrManifestMalformed},
		{"UnknownAlgo", `{"version":1,"algo":"aes-gcm","recipients":[` + valid + `]}`, kerrors.ErrManifestMalformed},
		{"NoRecipients", `{"version":1,"recipients":[]}`, kerrors.ErrManifestMalformed},
		{"NullRecipients", `{"version":1}`, kerrors.ErrManifestMalformed},
		{"UnknownTopLevelField", `{"version":1,"signature":"x","recipients":[` + valid + `]}`, kerrors.ErrManifestMalformed},
		{"UnknownEntryField", `{"version":1,"recipients":[{"email":"a@b.co","publicKey":"` + entry.PublicKey + `","wrappedKey":"` + entry.WrappedKey + `","note":"x"}]}`, kerrors.ErrManifestMalformed},
		{"EmptyEmail", `{"version":1,"recipients":[{"email":"","publicKey":"` + entry.PublicKey + `","wrappedKey":"` + entry.WrappedKey + `"}]}`, kerrors.ErrManifestMalformed},
		{"MalformedEmail", `{"version":1,"recipients":[{"email":"alice","publicKey":"` + entry.PublicKey + `","wrappedKey":"` + entry.WrappedKey + `"}]}`, kerrors.ErrManifestMalformed},
		{"PaddedEmail", `{"version":1,"recipients":[{"email":" alice@example.com","publicKey":"` + entry.PublicKey + `","wrappedKey":"` + entry.WrappedKey + `"}]}`, kerrors.ErrManifestMalformed},
		{"PublicKeyLineBreak", `{"version":1,"recipients":[{"email":"a@b.co","publicKey":"` + entry.PublicKey[:20] + `\n` + entry.PublicKey[20:] + `","wrappedKey":"` + entry.WrappedKey + `"}]}`, kerrors.ErrManifestMalformed},
		{"ShortPublicKey", `{"version":1,"recipients":[{"email":"a@b.co","publicKey":"` + secrets.EncodeBase64([]byte("short")) + `","wrappedKey":"` + entry.WrappedKey + `"}]}`, kerrors.ErrManifestMalformed},
		{"BadWrappedKey", `{"version":1,"recipients":[{"email":"a@b.co","publicKey":"` + entry.PublicKey + `","wrappedKey":"***"}]}`, kerrors.ErrManifestMalformed},
		{"TrailingData", `{"version":1,"recipients":[` + valid + `]} {}`, kerrors.ErrManifestMalformed},
		{"DuplicateEmail", `{"version":1,"recipients":[` + valid + `,` + strings.Replace(valid, "alice@example.com", "ALICE@example.com", 1) + `]}`, kerrors.ErrManifestCorrupt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse([]byte(tc.input))
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
			if m != nil {
				t.Error("Expected no partial manifest on error")
			}
		})
	}
}

func TestParseAggregatesViolations(t *testing.T) {
	input := `{"version":3,"algo":"rot13","recipients":[{"email":"","publicKey":"","wrappedKey":""}]}`
	_, err := Parse([]byte(input))
	if !errors.Is(err, kerrors.ErrManifestMalformed) {
		t.Fatalf("Expected ErrManifestMalformed, got %v", err)
	}
	for _, fragment := range []string{"version 3", "rot13", "email is empty", "publicKey is empty", "wrappedKey is empty"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Expected error to mention %q, got %q", fragment, err.Error())
		}
	}
}

func TestLookup(t *testing.T) {
	m := testManifest(t, "alice@example.com", "bob@example.com")

	t.Run("CaseInsensitive", func(t *testing.T) {
		entry, err := m.Lookup("  Alice@Example.COM ")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if entry.Email != "alice@example.com" {
			t.Errorf("Lookup returned %s", entry.Email)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := m.Lookup("carol@example.com"); !errors.Is(err, kerrors.ErrRecipientNotFound) {
			t.Errorf("Expected ErrRecipientNotFound, got %v", err)
		}
	})

	t.Run("DuplicateIsCorrupt", func(t *testing.T) {
		dup := &Manifest{Version: Version, Recipients: []Entry{m.Recipients[0], m.Recipients[0]}}
		dup.Recipients[1].Email = "ALICE@example.com"
		if _, err := dup.Lookup("alice@example.com"); !errors.Is(err, kerrors.ErrManifestCorrupt) {
			t.Errorf("Expected ErrManifestCorrupt, got %v", err)
		}
	})
}

func TestEmails(t *testing.T) {
	m := testManifest(t, "b@example.com", "a@example.com")
	emails := m.Emails()
	if len(emails) != 2 || emails[0] != "b@example.com" || emails[1] != "a@example.com" {
		t.Errorf("Emails = %v", emails)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	m := testManifest(t, "alice@example.com")

	if err := Save(m, path, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(m, path, false); !errors.Is(err, kerrors.ErrFileExists) {
		t.Errorf("Expected ErrFileExists, got %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Recipients[0] != m.Recipients[0] {
		t.Error("Loaded manifest differs")
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}

	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, kerrors.ErrManifestMalformed) {
		t.Errorf("Expected ErrManifestMalformed, got %v", err)
	}
}
