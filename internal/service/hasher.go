package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashing signals a failure inside the hashing primitive itself, e.g. a
// malformed digest or resource exhaustion. A password mismatch is never an
// error.
var ErrHashing = errors.New("hashing failure")

// PasswordHasher hashes and verifies passwords. Implementations are
// stateless; a fresh random salt is baked into every digest.
type PasswordHasher interface {
	// Hash returns a one-way digest of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches the given digest. A
	// mismatch yields (false, nil); only a malformed digest or primitive
	// failure yields an error.
	Compare(password, hash string) (bool, error)
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a PasswordHasher backed by bcrypt with the given
// work factor. Values outside bcrypt's supported range fall back to
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrHashing, err)
}
