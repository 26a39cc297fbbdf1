// Package errors provides typed error values for ripenv.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The CLI
// layer maps each kind to its own message and a non-zero exit code.
//
// # Error Categories
//
//   - Configuration errors: ErrConfiguration, ErrInvalidKeyfile
//   - Access errors: ErrInvalidPassword, ErrUnwrapFailed, ErrRecipientNotFound
//   - Input errors: ErrNoRecipients, ErrDuplicateRecipient, ErrInvalidRecipient,
//     ErrInvalidRecipientsExport, ErrInvalidEmail, ErrInvalidDateFormat
//   - Manifest errors: ErrManifestMalformed, ErrManifestCorrupt
//   - Payload errors: ErrPayloadCorrupt
//   - File errors: ErrFileExists, ErrFileNotFound
//   - Directory errors: ErrUserNotFound, ErrNoKeyDirectory
//   - Terminal errors: ErrTTYRequired, ErrPasswordMismatch, ErrEmptyPassword
//
// Some kinds merge causes. ErrInvalidPassword covers a wrong
// password, a wrong salt and a corrupted keyfile. ErrUnwrapFailed covers a
// wrong private key and a tampered wrapped key. The wrapped detail never
// says which one occurred.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s appears more than once", errors.ErrDuplicateRecipient, email)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidPassword) {
//	    // Ask the user to retry the password
//	}
package errors
