// Package workflows provides high-level orchestration for ripenv commands.
//
// Workflows coordinate multiple operations across packages (configs, secrets,
// envelope, manifest, recipients, audit) to implement complete user-facing
// features. Each workflow handles a single command's business logic,
// independent of CLI concerns like flag parsing, prompts, spinners, and
// output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads the password
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading user configuration and applying its defaults
//   - Validating inputs before any key material is generated
//   - Performing the core operation
//   - Writing outputs atomically
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Init: Generates a password-protected keyfile
//   - Encrypt: Encrypts a .env file for a set of recipients
//   - Decrypt: Decrypts .env.enc with the caller's keyfile
//   - Register: Adds an identity to a key directory
//   - Export: Writes a recipients export from a key directory
//   - InspectManifest: Parses and summarizes a manifest
//   - SetConfig, ShowConfig: Reads and updates user configuration
//   - Log: Reads and filters the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidPassword) {
//	    // Ask for the password again
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
