package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares the configured admin password with the supplied
// attempt. The configured value may be a bcrypt hash; a plaintext value is
// compared in constant time.
func CheckPassword(configured, attempt string) bool {
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") || strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(attempt)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(attempt)) == 1
}
