package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when the configuration does not
// set one. bcrypt embeds the factor in the hash, so existing hashes keep
// verifying after the setting changes.
const DefaultBcryptCost = 10

// HashPassword derives a salted adaptive hash of plain with the given work
// factor. Costs outside bcrypt's supported range fall back to the default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. The comparison
// is constant-time with respect to the hash contents.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
