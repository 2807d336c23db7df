// Package randid provides short random identifiers.
//
// Identifiers are generated from crypto/rand and Base64 RawURL
// encoded so they are safe in URLs, headers and log fields. They are
// used for request correlation, not for capture IDs, which are ULIDs.
package randid

import (
	"crypto/rand"
	"encoding/base64"
)

// DefaultLength is the default identifier length in bytes.
const DefaultLength = 16

// Generate generates a random identifier of the default length.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates an identifier with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
