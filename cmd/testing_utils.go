package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ripenv/ripenv/internal/configs"
	logger "github.com/ripenv/ripenv/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestEnvironment runs the test inside a fresh working directory with
// user settings pointing at a temporary home. Returns the working directory.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}
	originalSettings := *configs.UserRipenvSettings

	tempDir := t.TempDir()
	workDir := filepath.Join(tempDir, "project")
	userDir := filepath.Join(tempDir, "user")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create project directory: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		*configs.UserRipenvSettings = originalSettings
		passwordInput = os.Stdin
	})

	configs.UserRipenvSettings.UserKeysPath = filepath.Join(userDir, "data", "keys")
	configs.UserRipenvSettings.UserConfigsPath = filepath.Join(userDir, "config")
	configs.UserRipenvSettings.UserDataPath = filepath.Join(userDir, "data")
	configs.UserRipenvSettings.Username = "testuser"

	return workDir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	collect := func(r io.Reader) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to copy captured output: %s", err)
		}
		outputChan <- buf.String()
	}
	go collect(stdoutReader)
	go collect(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// resetFlags restores every flag in the command tree to its default so
// state from an earlier run does not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// runCLI executes the ripenv command line with args. stdin feeds --password-stdin.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	verbose = false
	debug = false
	Logger = logger.Logger{}
	passwordInput = strings.NewReader(stdin)

	// A nil slice makes cobra fall back to os.Args, which holds the test flags.
	if args == nil {
		args = []string{}
	}
	RootCmd.SetArgs(args)
	return captureOutput(RootCmd.Execute)
}

// mustRunCLI is runCLI for steps that must succeed.
func mustRunCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	output, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("ripenv %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return output
}

// writeFile writes content to path relative to the working directory.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// initIdentity creates a keyfile for email and registers it in the ./team-keys directory.
func initIdentity(t *testing.T, email, password, filename string) {
	t.Helper()
	mustRunCLI(t, password+"\n", "init", "--password-stdin", "--force",
		"--filename", filename, "--register", "team-keys", "--email", email)
}
