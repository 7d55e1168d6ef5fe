package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordCost = 12

	// bcrypt only reads the first 72 bytes of a password.
	MaxPasswordBytes = 72
)

func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash
// never matches.
func VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck runs a comparison against a throwaway hash so that lookups
// for unknown accounts take as long as a real password check.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("unused-password"), PasswordCost)
		if err == nil {
			dummyHash = string(hash)
		}
	})
	VerifyPassword(password, dummyHash)
}
