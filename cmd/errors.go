package cmd

import (
	"errors"
	"fmt"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/ui"

	"github.com/briandowns/spinner"
)

// reportedError wraps an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// report sets err as the spinner's final message and returns it marked as reported.
func report(s *spinner.Spinner, err error) error {
	Logger.Errorf("%v", err)
	s.FinalMSG = formatError(err)
	return &reportedError{err: err}
}

// reportNow prints err's message for failures that happen before a spinner starts.
func reportNow(err error) error {
	Logger.Errorf("%v", err)
	fmt.Print(ui.EnsureNewline(formatError(err)))
	return &reportedError{err: err}
}

// formatError maps an error to the message shown to the user.
func formatError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidPassword):
		return ui.Failure("Could not unlock your private key",
			"Check the password and try again")

	case errors.Is(err, kerrors.ErrUnwrapFailed):
		return ui.Failure("Access denied: your manifest entry cannot be opened with this keyfile",
			"Ask a teammate to re-encrypt with your current public key")

	case errors.Is(err, kerrors.ErrRecipientNotFound):
		return ui.Failure("You are not a recipient of this file: "+err.Error(),
			"Ask a teammate to add you and run "+ui.Code.Sprint("ripenv encrypt"))

	case errors.Is(err, kerrors.ErrPayloadCorrupt):
		return ui.Failure("The encrypted file is corrupted or was modified",
			"Fetch a fresh copy of "+ui.Path.Sprint(".env.enc")+" from version control")

	case errors.Is(err, kerrors.ErrManifestMalformed),
		errors.Is(err, kerrors.ErrManifestCorrupt):
		return ui.Failure("The manifest is invalid: " + err.Error())

	case errors.Is(err, kerrors.ErrNoRecipients):
		return ui.Failure("No recipients to encrypt for",
			"Pass "+ui.Flag.Sprint("--recipients")+" or "+ui.Flag.Sprint("--directory"))

	case errors.Is(err, kerrors.ErrDuplicateRecipient),
		errors.Is(err, kerrors.ErrInvalidRecipient),
		errors.Is(err, kerrors.ErrInvalidRecipientsExport):
		return ui.Failure("Invalid recipients: " + err.Error())

	case errors.Is(err, kerrors.ErrInvalidEmail):
		return ui.Failure(err.Error(),
			"Pass "+ui.Flag.Sprint("--email")+" or run "+ui.Code.Sprint("ripenv config set-email"))

	case errors.Is(err, kerrors.ErrConfiguration),
		errors.Is(err, kerrors.ErrInvalidKeyfile):
		return ui.Failure("The keyfile is invalid: " + err.Error())

	case errors.Is(err, kerrors.ErrFileExists):
		return ui.Failure(err.Error(),
			"Use "+ui.Flag.Sprint("--force")+" to overwrite")

	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Failure(err.Error())

	case errors.Is(err, kerrors.ErrUserNotFound):
		return ui.Failure(err.Error())

	case errors.Is(err, kerrors.ErrNoKeyDirectory):
		return ui.Failure("No key directory was given",
			"Pass "+ui.Flag.Sprint("--directory")+" or run "+ui.Code.Sprint("ripenv config set-directory"))

	case errors.Is(err, kerrors.ErrTTYRequired):
		return ui.Failure("A terminal is required to read the password",
			"Use "+ui.Flag.Sprint("--password-stdin")+" for non-interactive use")

	case errors.Is(err, kerrors.ErrPasswordMismatch):
		return ui.Failure("Passwords do not match")

	case errors.Is(err, kerrors.ErrEmptyPassword):
		return ui.Failure("The password must not be empty")

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Failure(err.Error())

	default:
		return ui.Failure("Unexpected error: " + err.Error())
	}
}
