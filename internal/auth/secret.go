// ABOUTME: Admin login secret verification backed by bcrypt
// ABOUTME: The config stores only the hash, never the plaintext secret

package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongSecret is returned when a login attempt presents the wrong
// admin secret.
var ErrWrongSecret = errors.New("wrong admin secret")

// AdminSubject is the JWT subject minted for a successful admin login.
const AdminSubject = "admin"

// HashSecret derives a bcrypt hash suitable for the admin_secret_hash
// config field.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret compares a presented secret against the stored bcrypt
// hash. Returns ErrWrongSecret on mismatch.
func CheckSecret(hash, secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongSecret
		}
		return err
	}
	return nil
}
