// Package manifest encodes and validates ripenv.manifest.json.
//
// A manifest lists every recipient of an encrypted .env file together with
// that recipient's copy of the file key, sealed to their public key:
//
//	{
//	  "version": 1,
//	  "projectId": "acme-api",
//	  "algo": "xsalsa20poly1305",
//	  "recipients": [
//	    {"email": "alice@example.com", "publicKey": "...", "wrappedKey": "..."}
//	  ]
//	}
//
// Field order is fixed and recipients keep the order they were encrypted in,
// so re-serializing a parsed manifest reproduces it byte for byte.
//
// Parsing is strict. Unknown fields, trailing data, a missing or unsupported
// version, empty fields and undecodable keys are all collected into a single
// ErrManifestMalformed. Two entries for the same email are ErrManifestCorrupt.
package manifest
