package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt at the given cost.
type Bcrypt struct {
	Cost int
}

func NewBcrypt() Bcrypt {
	return Bcrypt{Cost: bcrypt.DefaultCost}
}

func (b Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

func (b Bcrypt) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
