package crypto

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IsBcryptHash reports whether a stored credential is already hashed.
// Anything else is a legacy plaintext value pending lazy upgrade.
func IsBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// VerifyStored compares a submitted password against a stored value that is
// either a bcrypt hash or a legacy plaintext password. needsUpgrade is true
// only when a legacy value matched and should be re-hashed. An empty stored
// value never matches, so provider-created accounts without a password stay
// out of the password-login path.
func VerifyStored(stored, submitted string) (ok, needsUpgrade bool) {
	if stored == "" {
		return false, false
	}
	if IsBcryptHash(stored) {
		return CheckPassword(stored, submitted) == nil, false
	}
	match := subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
	return match, match
}
