package presign

import (
	"errors"
	"fmt"

	"object-signer/core/storage"
)

// MaxExpiry is the longest lifetime SigV4 accepts for a presigned URL.
const MaxExpiry = storage.MaxPresignExpiry

var (
	// ErrEmptyKey is the cause when no object key was supplied.
	ErrEmptyKey = errors.New("object key is empty")
	// ErrInvalidExpiry is the cause when the requested expiry is under a second or exceeds MaxExpiry.
	ErrInvalidExpiry = errors.New("expiry must be between 1 second and 7 days")
)

// SigningError is returned for every failure to produce a presigned URL.
type SigningError struct {
	Key string
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to generate presigned URL for %q: %v", e.Key, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err was caused by the caller's input rather than the signer.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidExpiry)
}
