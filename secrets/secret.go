package secrets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSecretNotFound is returned when the secret does not exist or has no value
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretStoreUnavailable is returned when the secret store could not be queried
	ErrSecretStoreUnavailable = errors.New("secret store unavailable")

	// ErrInvalidSecret is returned when the secret is not valid base64 or decodes to nothing
	ErrInvalidSecret = errors.New("invalid secret encoding")
)

// secretRedacted is printed instead of the key material.
const secretRedacted = "[REDACTED]"

// Secret holds the raw symmetric key used to verify Approov tokens.
// A nil or empty Secret means no key material is available.
type Secret []byte

// IsZero reports whether the secret is absent.
func (s Secret) IsZero() bool { return len(s) == 0 }

// Bytes returns a copy of the key material.
func (s Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// String returns the redacted placeholder.
func (s Secret) String() string { return secretRedacted }

// GoString returns the redacted placeholder.
func (s Secret) GoString() string { return secretRedacted }

// MarshalText implements encoding.TextMarshaler with the redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte(secretRedacted), nil }

// Decode turns the base64 value held by the secret store into key bytes.
// Padding is optional and surrounding whitespace is ignored.
func Decode(raw string) (Secret, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidSecret)
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		var rawErr error
		key, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
		}
	}

	if len(key) == 0 {
		return nil, fmt.Errorf("%w: decoded to zero bytes", ErrInvalidSecret)
	}

	return Secret(key), nil
}
