package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uni-assistant/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Authenticator struct {
	db    *gorm.DB
	codec *TokenCodec
}

func NewAuthenticator(db *gorm.DB, codec *TokenCodec) *Authenticator {
	return &Authenticator{db: db, codec: codec}
}

// Login checks credentials and issues a session token. Unknown accounts and
// wrong passwords both return ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := database.GetUserByEmail(ctx, a.db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			burnPasswordCheck(password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error looking up user: %w", err)
	}

	if !user.Verified {
		return nil, "", ErrNotVerified
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.codec.Issue(user.Id)
	if err != nil {
		return nil, "", err
	}

	return &User{Id: user.Id, Email: user.Email, FullName: user.FullName, Verified: user.Verified}, token, nil
}

// Register creates an unverified account. Verification happens out of band.
func (a *Authenticator) Register(ctx context.Context, email, password, fullName string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	user, err := CreateUser(ctx, a.db, email, password, fullName, false)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, email, password, fullName string, verified bool) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) || errors.Is(err, ErrEmptyPassword) {
			return nil, err
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	record := database.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Verified:     verified,
	}
	if err := database.CreateUser(ctx, db, &record); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &User{Id: record.Id, Email: record.Email, FullName: record.FullName, Verified: record.Verified}, nil
}

func SetVerified(ctx context.Context, db *gorm.DB, email string, verified bool) error {
	if err := database.SetUserVerified(ctx, db, email, verified); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no user with email %q", email)
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}
