package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// CaptureIDPrefix prefixes every archived capture ID.
// Format: cap-{ulid_lowercase}, 30 characters total.
const CaptureIDPrefix = "cap-"

// GenerateCaptureID creates a new unique, time-sortable capture ID.
func GenerateCaptureID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return CaptureIDPrefix + strings.ToLower(id.String()), nil
}

// ValidateCaptureID checks the cap-{ulid} format.
func ValidateCaptureID(id string) error {
	if !strings.HasPrefix(id, CaptureIDPrefix) {
		return ErrInvalidCaptureID.WithDetails("missing cap- prefix")
	}
	ulidPart := strings.ToUpper(id[len(CaptureIDPrefix):])
	if _, err := ulid.Parse(ulidPart); err != nil {
		return ErrInvalidCaptureID.WithCause(err)
	}
	return nil
}
