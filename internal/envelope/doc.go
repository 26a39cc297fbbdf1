// Package envelope implements ripenv's multi-recipient encryption.
//
// Encrypt seals a plaintext once under a fresh random file key and seals that
// file key to every recipient's public key. Decrypt reverses the process for
// one recipient using their unlocked keypair.
//
// A recipient only ever learns the file key of manifests they appear in.
// Removing someone is done by encrypting again without them; the new run
// uses a new file key.
package envelope
