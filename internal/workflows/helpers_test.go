package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ripenv/ripenv/internal/configs"
)

// testEnv isolates user settings and provides a project directory.
type testEnv struct {
	root    string
	project string
	keys    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	original := *configs.UserRipenvSettings
	configs.UserRipenvSettings.UserConfigsPath = filepath.Join(root, "config", "ripenv")
	configs.UserRipenvSettings.UserDataPath = filepath.Join(root, "data", "ripenv")
	configs.UserRipenvSettings.UserKeysPath = filepath.Join(root, "data", "ripenv", "keys")
	configs.UserRipenvSettings.Username = "tester"
	t.Cleanup(func() {
		*configs.UserRipenvSettings = original
	})

	env := &testEnv{
		root:    root,
		project: filepath.Join(root, "project"),
		keys:    filepath.Join(root, "team-keys"),
	}
	if err := os.MkdirAll(env.project, 0755); err != nil {
		t.Fatalf("Failed to create project dir: %v", err)
	}
	return env
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.project, name)
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := e.path(name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// identity creates a keyfile for email under the project dir and registers it.
func (e *testEnv) identity(t *testing.T, email, password string) string {
	t.Helper()
	dir := filepath.Join(e.root, "identities", email)
	result, err := Init(context.Background(), InitOptions{
		Password:    []byte(password),
		OutDir:      dir,
		Filename:    "key.enc.json",
		RegisterDir: e.keys,
		Email:       email,
		Force:       true,
	})
	if err != nil {
		t.Fatalf("Init for %s failed: %v", email, err)
	}
	return result.KeyfilePaths[0]
}
