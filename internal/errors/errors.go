package errors

import "errors"

// Configuration errors indicate malformed key-derivation inputs or key material.
var (
	// ErrConfiguration indicates a malformed KDF input, such as a wrong salt size or an unsupported kdf tag.
	ErrConfiguration = errors.New("invalid key derivation configuration")

	// ErrInvalidKeyfile indicates the keyfile is not a well-formed ripenv keyfile.
	ErrInvalidKeyfile = errors.New("invalid keyfile")
)

// Access errors indicate the caller could not recover key material.
var (
	// ErrInvalidPassword indicates the private key could not be unlocked.
	// A wrong password, a wrong salt and a corrupted keyfile all produce this error.
	ErrInvalidPassword = errors.New("unable to unlock private key; check password and keyfile integrity")

	// ErrUnwrapFailed indicates the wrapped file key could not be opened with the caller's private key.
	ErrUnwrapFailed = errors.New("access denied or corrupted manifest")

	// ErrRecipientNotFound indicates the caller's email has no entry in the manifest.
	ErrRecipientNotFound = errors.New("no manifest entry for recipient")
)

// Input errors indicate an encryption run was given an unusable recipient set.
var (
	// ErrNoRecipients indicates an encryption run was given no recipients.
	ErrNoRecipients = errors.New("at least one recipient is required")

	// ErrDuplicateRecipient indicates the same email appears more than once in a recipient list.
	ErrDuplicateRecipient = errors.New("duplicate recipient email")

	// ErrInvalidRecipient indicates a recipient has a missing email or an unusable public key.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidRecipientsExport indicates the recipients export document failed validation.
	ErrInvalidRecipientsExport = errors.New("invalid recipients export")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidDateFormat indicates the date format is invalid.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Manifest errors indicate the manifest document cannot be trusted.
var (
	// ErrManifestMalformed indicates a structural validation failure while parsing a manifest.
	ErrManifestMalformed = errors.New("manifest is malformed")

	// ErrManifestCorrupt indicates a semantically inconsistent manifest, such as two entries for one email.
	ErrManifestCorrupt = errors.New("manifest is corrupt")
)

// Payload errors indicate the encrypted payload failed authentication.
var (
	// ErrPayloadCorrupt indicates the encrypted payload failed to decrypt or authenticate.
	ErrPayloadCorrupt = errors.New("encrypted payload is corrupt or was tampered with")
)

// File errors indicate issues with output or input files.
var (
	// ErrFileExists indicates an output file already exists and overwriting was not requested.
	ErrFileExists = errors.New("file already exists")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")
)

// Directory errors indicate issues with the local key directory.
var (
	// ErrUserNotFound indicates the specified identity is not registered.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoKeyDirectory indicates no key directory was given and none is configured.
	ErrNoKeyDirectory = errors.New("no key directory given")
)

// Terminal errors indicate issues reading interactive input.
var (
	// ErrTTYRequired indicates a password prompt was needed but no terminal is attached.
	ErrTTYRequired = errors.New("a terminal is required to read the password")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password must not be empty")
)
