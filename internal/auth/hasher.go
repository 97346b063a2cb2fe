package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; raising it invalidates nothing but slows new hashes.
const bcryptCost = 12

// HashPassword produces a salted bcrypt hash of the plaintext. Two calls with
// the same input yield different hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash. A
// malformed stored hash yields false, never an error surfaced to callers.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
