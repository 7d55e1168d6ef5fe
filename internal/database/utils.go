package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already registered")

func GetUserByEmail(ctx context.Context, txn *gorm.DB, email string) (*User, error) {
	var user User
	if err := txn.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserById(ctx context.Context, txn *gorm.DB, id uuid.UUID) (*User, error) {
	var user User
	if err := txn.WithContext(ctx).
		Select("id", "email", "full_name", "verified").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, txn *gorm.DB, user *User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}

	err := txn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("error checking existing user: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func SetUserVerified(ctx context.Context, txn *gorm.DB, email string, verified bool) error {
	result := txn.WithContext(ctx).Model(&User{}).Where("email = ?", email).Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
