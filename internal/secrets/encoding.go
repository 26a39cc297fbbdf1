package secrets

import (
	"encoding/base64"
	"errors"
	"strings"
)

var errBase64Padding = errors.New("illegal base64 padding")

// EncodeBase64 encodes bytes with the URL-safe alphabet and padding, the
// encoding used by every ripenv artifact.
func EncodeBase64(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a base64 field. Padding is optional and both the
// URL-safe and the standard alphabet are accepted, since keys are also
// produced by the web client. Line breaks, non-canonical trailing bits and
// padding beyond what the length implies are rejected.
func DecodeBase64(data string) ([]byte, error) {
	if strings.ContainsAny(data, "\r\n") {
		return nil, base64.CorruptInputError(strings.IndexAny(data, "\r\n"))
	}
	body := strings.TrimRight(data, "=")
	if padding := len(data) - len(body); padding > 0 && (padding > 2 || len(data)%4 != 0) {
		return nil, errBase64Padding
	}
	if strings.ContainsAny(body, "+/") {
		return base64.RawStdEncoding.Strict().DecodeString(body)
	}
	return base64.RawURLEncoding.Strict().DecodeString(body)
}
