// Package audit provides audit trail logging for ripenv operations.
//
// Every operation that touches key material or secrets (init, encrypt,
// decrypt, register, export) is recorded in a per-user audit log. Secrets, keys
// and passwords are never written to it.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/ripenv/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - A random operation ID
//   - User email, or the system username when none is configured
//   - Operation name
//   - Operation-specific details (files, recipient count, project)
//
// # Usage
//
// Create an entry with user info pre-populated:
//
//	entry := audit.LogWithUser("encrypt")
//	entry.Files = outputs
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display.
// Malformed entries are silently skipped to handle partial writes.
package audit
