// Package password wraps bcrypt for credential storage. The salt is generated
// per call and embedded in the output, so the stored hash is self-contained.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the rest of the system was tuned for.
const bcryptCost = 10

var ErrMalformedHash = errors.New("malformed password hash")

// Hash returns the bcrypt hash of plain. It fails only when the entropy
// source fails or the input exceeds bcrypt's 72-byte limit.
func Hash(plain string) (string, error) {
	if len(plain) > 72 {
		return "", fmt.Errorf("hash password failed: input exceeds 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. A mismatch is not an
// error; the error return fires only for hashes bcrypt cannot decode.
func Verify(hashed, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
}
