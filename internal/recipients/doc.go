// Package recipients resolves who an encryption run is for.
//
// The portable form is a recipients export, a JSON document listing the
// project's members and their public keys:
//
//	{
//	  "projectId": "acme-api",
//	  "recipients": [
//	    {"email": "alice@example.com", "publicKey": "..."}
//	  ]
//	}
//
// A Source hides where the list comes from. FileSource reads an export file
// and DirectorySource lists a local key directory.
package recipients
