package auth

import (
	"context"

	"github.com/google/uuid"
)

type User struct {
	Id       uuid.UUID
	Email    string
	FullName string
	Verified bool
}

type userContextKey struct{}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}
