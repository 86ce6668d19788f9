// ABOUTME: bcrypt password hashing for synthesized guest accounts
// ABOUTME: Only populates the placeholder password_hash column
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GuestPlaceholderPassword is hashed into every synthesized guest account
const GuestPlaceholderPassword = "guest_default_password"

// Hasher turns a plaintext password into a storable hash
type Hasher func(plaintext string) (string, error)

// NewPasswordHasher returns a bcrypt Hasher using cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return func(plaintext string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hash), nil
	}
}

// HashPassword hashes plaintext with bcrypt.DefaultCost
func HashPassword(plaintext string) (string, error) {
	return NewPasswordHasher(bcrypt.DefaultCost)(plaintext)
}

// CheckPassword reports whether plaintext matches hash
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
