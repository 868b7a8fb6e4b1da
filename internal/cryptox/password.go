package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is bcrypt's work factor for secret passwords.
const passwordHashCost = 10

// ErrMalformedDigest indicates a stored digest that is not a valid bcrypt
// hash. A plain mismatch is never an error.
var ErrMalformedDigest = errors.New("malformed password digest")

// HashPassword produces a salted bcrypt digest of the password. The digest
// embeds its own salt, so two calls on the same password differ.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. A wrong password
// returns (false, nil); only a structurally invalid digest yields an error.
func VerifyPassword(password string, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrMalformedDigest
	}
}
