package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Configuration for bcrypt hashing.
const (
	// MinCost is the lowest work factor we accept. Anything lower is
	// bumped up to this value.
	MinCost = 10

	// DefaultCost is used when no cost is configured.
	DefaultCost = MinCost

	// MaxPasswordBytes is the bcrypt input limit, bytes beyond it are ignored
	// by the algorithm so we reject them up front.
	MaxPasswordBytes = 72
)

var ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")

// ClampCost keeps the bcrypt cost inside [MinCost, bcrypt.MaxCost].
func ClampCost(cost int) int {
	if cost < MinCost {
		return MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword generates a salted bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), ClampCost(cost))
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash. A
// malformed hash is treated as a mismatch.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashCost returns the work factor embedded in a bcrypt hash.
func HashCost(hash string) (int, error) {
	return bcrypt.Cost([]byte(hash))
}
