package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"uni-assistant/internal/database"

	"gorm.io/gorm"
)

type Resolver struct {
	db    *gorm.DB
	codec *TokenCodec
}

func NewResolver(db *gorm.DB, codec *TokenCodec) *Resolver {
	return &Resolver{db: db, codec: codec}
}

// Resolve maps a session token to the user it names. Verification status is
// reported but not enforced.
func (s *Resolver) Resolve(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userId, err := s.codec.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := database.GetUserById(ctx, s.db, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %v no longer exists", ErrUnauthenticated, userId)
		}
		return nil, fmt.Errorf("error loading user %v: %w", userId, err)
	}

	return &User{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		Verified: user.Verified,
	}, nil
}

func (s *Resolver) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Resolve(r.Context(), sessionToken(r))
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				slog.Error("error resolving session", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}` + "\n")) //nolint:errcheck
				return
			}
			WriteUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
