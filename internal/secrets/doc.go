// Package secrets provides the cryptographic primitives of ripenv.
//
// This package handles key derivation, identity keypairs, password-protected
// keyfiles and the symmetric and sealed-box operations the envelope engine
// is built from.
//
// # Encryption Architecture
//
// ripenv uses an envelope scheme:
//
//  1. A random 256-bit file key encrypts the .env payload with NaCl secretbox
//  2. The file key is sealed to each recipient's X25519 public key with an
//     anonymous NaCl box
//  3. A recipient opens their sealed copy with their private key, then opens
//     the payload
//
// # Keyfiles
//
// A keyfile holds the public key in the clear and the private key sealed
// under a key-encrypting key (KEK) derived from the user's password with
// Argon2id (t=2, m=64 MiB, p=1, 16-byte salt):
//
//	{
//	  "publicKey": "...",
//	  "encPrivateKey": "...",
//	  "salt": "...",
//	  "kdf": "argon2id"
//	}
//
// A wrong password and a tampered keyfile are reported with the same error,
// ErrInvalidPassword, so callers cannot tell them apart.
//
// # Encodings
//
// Binary fields are base64 with the URL-safe alphabet and padding. Decoding
// also accepts unpadded input and the standard alphabet.
//
// # Security Considerations
//
// Keyfiles are written with 0600 permissions. File keys, KEKs, nonces and
// unlocked private keys are zeroed with memguard once they are no longer
// needed.
package secrets
