// Package services – AuthService
//
// This file implements the AuthService, which owns account registration,
// credential verification, and the session token lifecycle. Passwords are
// hashed with bcrypt before they reach the repository; session tokens are
// HS256-signed JWTs with a fixed lifetime carrying the user id and email.
//
// The clock is injectable (Now) so token expiry is testable without
// sleeping.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/globemate/globemate-backend/internal/domain"
	"github.com/globemate/globemate-backend/internal/repo"
)

// bcryptCost matches the work factor of the original deployment. Stored
// hashes embed their cost, so raising this later only affects new accounts.
const bcryptCost = 10

// UserRepo defines the repository contract required by AuthService.
type UserRepo interface {
	// CreateUser inserts a new user row; passwordHash must already be hashed.
	CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash, displayName string) (*domain.User, error)

	// GetUserByEmail fetches a user by email (case-insensitive).
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)

	// GetUserByID fetches a user by primary key.
	GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
}

// Claims is the signed payload inside a session token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService provides registration, login, and session token operations.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo

	// Secret is the HMAC key used to sign session tokens.
	Secret []byte
	// TokenTTL is the fixed session lifetime (expiry = issuance + TTL).
	TokenTTL time.Duration

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewAuthService constructs an AuthService with the given signing secret and
// token lifetime.
func NewAuthService(db *gorm.DB, r UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		DB:       db,
		Repo:     r,
		Secret:   []byte(secret),
		TokenTTL: ttl,
		Now:      time.Now,
	}
}

// Register creates a new account and issues a session token for it.
// The raw password is bcrypt-hashed before persistence; a duplicate email
// fails with ErrDuplicateEmail. When displayName is blank it defaults to
// the username, matching the sign-up form behavior.
func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}

	u, err := s.Repo.CreateUser(ctx, s.DB, username, email, string(hash), displayName)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies email+password and issues a session token. An unknown email
// and a wrong password both fail with the identical ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// VerifyPassword reports whether candidate matches the user's stored hash.
func (s *AuthService) VerifyPassword(u *domain.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// IssueToken signs a session token for u with expiry = now + TokenTTL.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// VerifyToken parses and validates a session token, returning its claims.
// Signature failure, malformed input, a non-HMAC signing method, and expiry
// all collapse into ErrInvalidToken.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.Secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves verified claims to the full user record.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*domain.User, error) {
	return s.UserByID(ctx, claims.UserID)
}

// UserByID fetches a user by id, mapping a missing record to ErrUserNotFound.
func (s *AuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetUserByID(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// now returns the configured clock, defaulting to time.Now.
func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
