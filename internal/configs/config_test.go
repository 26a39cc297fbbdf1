package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/ripenv/ripenv/internal/errors"
)

func withTempSettings(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	old := *UserRipenvSettings
	UserRipenvSettings.UserConfigsPath = filepath.Join(tempDir, "config")
	UserRipenvSettings.UserKeysPath = filepath.Join(tempDir, "data", "keys")
	UserRipenvSettings.UserDataPath = filepath.Join(tempDir, "data")
	t.Cleanup(func() {
		*UserRipenvSettings = old
	})
	return tempDir
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	withTempSettings(t)

	config := &UserConfig{
		User: User{
			Email:   "test@example.com",
			Keyfile: "/tmp/mykey.enc.json",
		},
		Defaults: Defaults{
			OutDir:      "build",
			Directory:   "/srv/keys",
			Concurrency: 4,
		},
	}

	err := SaveUserConfig(config)
	if err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loadedConfig, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if *loadedConfig != *config {
		t.Errorf("Expected %+v, got %+v", config, loadedConfig)
	}
}

func TestLoadUserConfigMissingFile(t *testing.T) {
	withTempSettings(t)

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if config.User.Email != "" {
		t.Errorf("Expected empty email, got %q", config.User.Email)
	}
	if config.KeyfilePath() != DefaultKeyfilePath() {
		t.Errorf("Expected default keyfile path, got %q", config.KeyfilePath())
	}
	if config.OutDir() != "." {
		t.Errorf("Expected default out dir, got %q", config.OutDir())
	}
}

func TestLoadUserConfigMalformed(t *testing.T) {
	withTempSettings(t)

	if err := os.MkdirAll(UserRipenvSettings.UserConfigsPath, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"InvalidTOML", "[user\nemail = "},
		{"UnknownKey", "[user]\nemial = \"a@b.co\"\n"},
		{"InvalidEmail", "[user]\nemail = \"not-an-email\"\n"},
		{"NegativeConcurrency", "[defaults]\nconcurrency = -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := os.WriteFile(UserConfigPath(), []byte(tc.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := LoadUserConfig(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSaveUserConfigRejectsInvalidEmail(t *testing.T) {
	withTempSettings(t)

	err := SaveUserConfig(&UserConfig{User: User{Email: "bad"}})
	if !errors.Is(err, kerrors.ErrInvalidEmail) {
		t.Errorf("Expected ErrInvalidEmail, got %v", err)
	}
	if _, statErr := os.Stat(UserConfigPath()); !os.IsNotExist(statErr) {
		t.Error("Expected no config file to be written")
	}
}

func TestEnsureUserSettings(t *testing.T) {
	withTempSettings(t)

	if err := EnsureUserSettings(); err != nil {
		t.Fatalf("EnsureUserSettings failed: %v", err)
	}
	for _, dir := range []string{UserRipenvSettings.UserKeysPath, UserRipenvSettings.UserConfigsPath, UserRipenvSettings.UserDataPath} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}
}
