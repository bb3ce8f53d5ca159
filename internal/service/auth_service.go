package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrMissingJWTSecret     = errors.New("JWT secret cannot be empty when a password is configured")
)

const tokenSubject = "owner"

// --- Service Interface ---

// AuthService guards a single local installation with one password.
type AuthService interface {
	// Enabled is false when no password hash is configured.
	Enabled() bool
	Login(ctx context.Context, password string) (string, error)
	GetJWTSecret() string
}

// --- Service Implementation ---

type authService struct {
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(passwordHash, jwtSecret string, jwtExpiration time.Duration) (AuthService, error) {
	if passwordHash != "" && jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}, nil
}

func (s *authService) Enabled() bool {
	return s.passwordHash != ""
}

// Login checks the password and issues a JWT.
func (s *authService) Login(_ context.Context, password string) (string, error) {
	if !s.Enabled() || password == "" {
		return "", ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT()
	if err != nil {
		return "", ErrTokenGeneration
	}
	return token, nil
}

// --- JWT Helper ---

func (s *authService) generateJWT() (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   tokenSubject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "fitness-calendar",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
