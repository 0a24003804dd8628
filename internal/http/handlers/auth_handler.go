// Authentication HTTP handlers.
//
// Endpoints:
//   - POST /auth/register  (create account, issue session)
//   - POST /auth/login     (verify credentials, issue session)
//   - POST /auth/logout    (clear session cookie)
//   - GET  /auth/me        (current account, requires auth)
//
// The session token is delivered twice on register/login: as an httpOnly
// cookie for browser clients and in the JSON body for clients that prefer
// bearer headers. Logout only clears the cookie; bearer clients discard the
// token themselves.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/globemate/globemate-backend/internal/domain"
	"github.com/globemate/globemate-backend/internal/services"
)

// AuthService defines the account operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context.
type AuthService interface {
	// Register creates an account and returns it with a fresh session token.
	Register(ctx context.Context, username, email, password, displayName string) (*domain.User, string, error)
	// Login verifies credentials and returns the account with a session token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// UserByID resolves an authenticated user id to its record.
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// CookieOptions describes how the session cookie is written and cleared.
type CookieOptions struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// AuthHandlers groups the authentication endpoints.
type AuthHandlers struct {
	svc    AuthService
	cookie CookieOptions
}

// NewAuthHandlers constructs AuthHandlers bound to the given service and
// cookie settings.
func NewAuthHandlers(svc AuthService, cookie CookieOptions) *AuthHandlers {
	return &AuthHandlers{svc: svc, cookie: cookie}
}

//
// DTOs
//

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required" example:"maria"`
	Email       string `json:"email" binding:"required,email" example:"maria@example.com"`
	Password    string `json:"password" binding:"required,min=6" example:"s3cret-pass"`
	DisplayName string `json:"displayName" example:"Maria K."`
}

// LoginRequest is the JSON payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"maria@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message" example:"Login successful"`
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user and issues a session token (cookie + body).
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure or email taken"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "username, email and password are required")
		return
	}

	u, token, err := h.svc.Register(c.Request.Context(),
		strings.TrimSpace(req.Username),
		strings.TrimSpace(req.Email),
		req.Password,
		strings.TrimSpace(req.DisplayName),
	)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			fail(c, http.StatusBadRequest, ErrCodeEmailTaken, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "registration failed")
		return
	}

	h.setSessionCookie(c, token)
	ok(c, http.StatusCreated, AuthResponse{User: u, Token: token, Message: "User registered successfully"})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies email and password and issues a session token (cookie + body).
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure or invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "email and password are required")
		return
	}

	u, token, err := h.svc.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Same code and message whether the email is unknown or the
			// password is wrong.
			fail(c, http.StatusBadRequest, ErrCodeInvalidCredentials, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
		return
	}

	h.setSessionCookie(c, token)
	ok(c, http.StatusOK, AuthResponse{User: u, Token: token, Message: "Login successful"})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears the session cookie. Bearer clients simply discard the token.
// @Tags        Auth
// @Produce     json
//
// @Success     200  {object}  map[string]string
// @Router      /auth/logout [post]
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	ok(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Description Returns the account of the authenticated user.
// @Tags        Auth
// @Produce     json
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "User no longer exists"
// @Router      /auth/me [get]
func (h *AuthHandlers) Me(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	u, err := h.svc.UserByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "lookup failed")
		return
	}
	ok(c, http.StatusOK, u)
}

// setSessionCookie writes the httpOnly session cookie.
func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}
