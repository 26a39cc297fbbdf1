// Package directory stores registered identities on the local filesystem.
//
// Each identity is one JSON file named after its lower-cased email:
//
//	<dir>/alice@example.com.json
//	{
//	  "email": "alice@example.com",
//	  "publicKey": "...",
//	  "registeredAt": "2026-01-02T15:04:05Z"
//	}
//
// Registering an email again replaces its record. A new keypair is a new
// identity, and files encrypted for the old one stay readable only with the
// old private key.
package directory
