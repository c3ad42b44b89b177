// Package auth provides password hashing and bearer token utilities.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt work factor used for new hashes.
const DefaultHashCost = 10

// HashPassword creates a bcrypt hash of the given password.
// Each call uses a fresh random salt, so equal passwords never produce
// equal hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// A malformed hash returns false through the same path as a wrong
// password; callers cannot distinguish the two.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
