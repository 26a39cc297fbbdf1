package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ripenv/ripenv/internal/directory"
	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/recipients"
	"github.com/ripenv/ripenv/internal/secrets"
)

func TestRecipientsRegister(t *testing.T) {
	setupTestEnvironment(t)
	keypair, err := secrets.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	publicKey := secrets.EncodePublicKey(keypair.PublicKey)

	output := mustRunCLI(t, "", "recipients", "register", "--directory", "team-keys", "--email", "dave@example.com", "--pubkey", publicKey)
	if !strings.Contains(output, "Registered") || !strings.Contains(output, secrets.Fingerprint(keypair.PublicKey)) {
		t.Errorf("Expected registration with fingerprint, got: %s", output)
	}

	mustRunCLI(t, "pw\n", "init", "--password-stdin")
	output = mustRunCLI(t, "", "recipients", "register", "--directory", "team-keys", "--email", "dave@example.com", "--keyfile", secrets.DefaultKeyfileName)
	if !strings.Contains(output, "Replaced") {
		t.Errorf("Expected replacement message, got: %s", output)
	}

	record, err := directory.New("team-keys").Get("dave@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.PublicKey == publicKey {
		t.Error("Expected the keyfile's public key to replace the text key")
	}

	if _, err := runCLI(t, "", "recipients", "register", "--directory", "team-keys", "--email", "dave@example.com", "--pubkey", "short"); !errors.Is(err, kerrors.ErrInvalidRecipient) {
		t.Errorf("Expected ErrInvalidRecipient, got %v", err)
	}
	if _, err := runCLI(t, "", "recipients", "register", "--directory", "team-keys", "--email", "dave@example.com"); err == nil {
		t.Error("Expected an error without --pubkey or --keyfile")
	}
}

func TestRecipientsExport(t *testing.T) {
	setupTestEnvironment(t)
	initIdentity(t, "bob@example.com", "pw", "bob.enc.json")
	initIdentity(t, "alice@example.com", "pw", "alice.enc.json")

	output := mustRunCLI(t, "", "recipients", "export", "--directory", "team-keys", "--project", "acme", "--out", "team.json")
	if !strings.Contains(output, "Exported 2 recipients") {
		t.Errorf("Expected export summary, got: %s", output)
	}

	export, err := recipients.LoadExport("team.json")
	if err != nil {
		t.Fatalf("LoadExport failed: %v", err)
	}
	if export.ProjectID != "acme" || len(export.Recipients) != 2 || export.Recipients[0].Email != "alice@example.com" {
		t.Errorf("Unexpected export: %+v", export)
	}

	if _, err := runCLI(t, "", "recipients", "export", "--directory", "team-keys", "--project", "acme", "--out", "team.json"); !errors.Is(err, kerrors.ErrFileExists) {
		t.Errorf("Expected ErrFileExists, got %v", err)
	}
	if _, err := runCLI(t, "", "recipients", "export", "--directory", "team-keys"); err == nil {
		t.Error("Expected an error without --project")
	}
}

func TestRecipientsExportEmptyDirectory(t *testing.T) {
	setupTestEnvironment(t)
	output := mustRunCLI(t, "", "recipients", "export", "--directory", "nobody", "--project", "acme")
	if !strings.Contains(output, "no recipients") {
		t.Errorf("Expected empty export warning, got: %s", output)
	}

	writeFile(t, ".env", "A=1\n")
	if _, err := runCLI(t, "", "encrypt", "--recipients", "recipients.json"); !errors.Is(err, kerrors.ErrNoRecipients) {
		t.Errorf("Expected ErrNoRecipients, got %v", err)
	}
}

func TestRecipientsRemove(t *testing.T) {
	setupTestEnvironment(t)
	initIdentity(t, "bob@example.com", "pw", "bob.enc.json")

	output := mustRunCLI(t, "", "recipients", "remove", "--directory", "team-keys", "--email", "BOB@example.com")
	if !strings.Contains(output, "Removed") || !strings.Contains(output, "bob@example.com") {
		t.Errorf("Expected removal message, got: %s", output)
	}
	if _, err := directory.New("team-keys").Get("bob@example.com"); !errors.Is(err, kerrors.ErrUserNotFound) {
		t.Errorf("Expected bob to be gone, got %v", err)
	}

	_, err := runCLI(t, "", "recipients", "remove", "--directory", "team-keys", "--email", "bob@example.com")
	if !errors.Is(err, kerrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	output, err = runCLI(t, "", "recipients", "remove", "--email", "bob@example.com")
	if !errors.Is(err, kerrors.ErrNoKeyDirectory) {
		t.Errorf("Expected ErrNoKeyDirectory, got %v", err)
	}
	if !strings.Contains(output, "No key directory") {
		t.Errorf("Expected key directory hint, got: %s", output)
	}
}
