// Package utils provides shared utility functions for ripenv.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
// Functions for writing artifacts safely:
//   - WriteFilesAtomically: stages a set of files and renames them into place
//   - FileExists: reports whether a path exists
//
// # String Utilities
//
// Functions for formatting and validating user input:
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidEmail, NormalizeEmail: identity handling
//   - JoinErrors: compact formatting for aggregated validation errors
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//
// # Terminal Utilities
//
// Functions for password input:
//   - ReadPassphrase: reads a password from the terminal without echo
//   - ReadLine: reads a single line from a reader, for --password-stdin
package utils
