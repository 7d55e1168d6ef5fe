package api

import (
	"errors"
	"net/http"

	"uni-assistant/internal/auth"
	"uni-assistant/internal/metrics"
	"uni-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
)

type AuthService struct {
	authenticator *auth.Authenticator
	resolver      *auth.Resolver
	codec         *auth.TokenCodec
	secureCookies bool
}

func NewAuthService(authenticator *auth.Authenticator, resolver *auth.Resolver, codec *auth.TokenCodec, secureCookies bool) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		resolver:      resolver,
		codec:         codec,
		secureCookies: secureCookies,
	}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", RestWriterHandler(s.Login))
		r.Post("/register", RestHandler(s.Register))
		r.Post("/logout", RestWriterHandler(s.Logout))
		r.With(s.resolver.RequireUser).Get("/me", RestHandler(s.Me))
	})
}

func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) (any, error) {
	req, err := ParseRequest[api.LoginRequest](r)
	if err != nil {
		return nil, err
	}

	user, token, err := s.authenticator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			metrics.LoginAttempts.WithLabelValues("invalid_request").Inc()
			return nil, CodedErrorf(http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, CodedErrorf(http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, auth.ErrNotVerified):
			metrics.LoginAttempts.WithLabelValues("unverified").Inc()
			return nil, CodedErrorf(http.StatusForbidden, "Please verify your email before logging in")
		default:
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			return nil, CodedError(http.StatusInternalServerError, err)
		}
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	auth.SetSessionCookie(w, token, s.codec.TTL(), s.secureCookies)

	return api.AuthResponse{Message: "Login successful", User: convertPublicUser(user)}, nil
}

func (s *AuthService) Register(r *http.Request) (any, error) {
	req, err := ParseRequest[api.RegisterRequest](r)
	if err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			return nil, CodedErrorf(http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrPasswordTooLong):
			return nil, CodedErrorf(http.StatusBadRequest, "Password must be at most %d bytes", auth.MaxPasswordBytes)
		case errors.Is(err, auth.ErrEmailTaken):
			return nil, CodedErrorf(http.StatusConflict, "An account with this email already exists")
		default:
			return nil, CodedError(http.StatusInternalServerError, err)
		}
	}

	return WithStatus(http.StatusCreated, api.AuthResponse{
		Message: "Registration successful. Please verify your email before logging in.",
		User:    convertPublicUser(user),
	}), nil
}

// Logout only clears the cookie. The token itself stays valid until it
// expires.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) (any, error) {
	auth.ClearSessionCookie(w, s.secureCookies)
	return api.MessageResponse{Message: "Logged out successfully"}, nil
}

func (s *AuthService) Me(r *http.Request) (any, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "Unauthorized")
	}
	return convertCurrentUser(user), nil
}
