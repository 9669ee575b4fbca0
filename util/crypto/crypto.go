// Package crypto wraps password hashing and verification.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is fixed: slow enough to resist brute force, bounded so hashing
// cannot itself become a denial-of-service vector.
const hashCost = 10

// ErrCorruptHash reports a stored password hash that bcrypt cannot parse.
// Not user-triggerable in normal operation.
var ErrCorruptHash = errors.New("corrupt password hash")

// HashPassword generates a salted bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(hash), err
}

// CheckPasswordHash verifies password against a stored hash in constant
// time. A mismatch is a false result, not an error; only a malformed hash
// yields ErrCorruptHash.
func CheckPasswordHash(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrCorruptHash
	}
}
