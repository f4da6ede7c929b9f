package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. The produced hash embeds both the salt and
// the cost, so verification needs no side channel.
const HashCost = 10

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrHashRequired     = errors.New("hashed password is required")
)

// GeneratePasswordHash hashes a plaintext password with a per-call random salt.
// Two calls with the same input produce different hashes.
func GeneratePasswordHash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// ComparePasswordHash reports whether password matches hashedPassword. A
// well-formed hash that simply does not match returns (false, nil); only empty
// arguments are errors.
func ComparePasswordHash(password, hashedPassword string) (bool, error) {
	if password == "" {
		return false, ErrPasswordRequired
	}
	if hashedPassword == "" {
		return false, ErrHashRequired
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return false, nil
	}

	return true, nil
}
