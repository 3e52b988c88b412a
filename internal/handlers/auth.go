package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/internal/store"
	"github.com/folioweb/siteserver/types"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// Wrong password and unknown username must produce byte-identical
// responses so usernames cannot be enumerated through the login form.
const (
	msgBadCredentials = "Wrong username or password"
	msgLoginFailed    = "Error checking login"
	msgSignupOK       = "Signup successful! You can now login."
	msgSignupFailed   = "Error registering user (username may already exist)"
	msgLoginOK        = "Login successful."
)

// AuthHandler serves the login and signup routes.
type AuthHandler struct {
	users    *services.UserService
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService, jwtSecret string, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		users:    users,
		secret:   []byte(jwtSecret),
		tokenTTL: defaultTokenTTL,
		log:      log,
	}
}

// LoginResponse carries the session user and the bearer token admin
// routes require.
type LoginResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *types.SessionUser `json:"user,omitempty"`
	Token   string             `json:"token,omitempty"`
}

// Login verifies form-encoded credentials against the stored bcrypt hash.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeResult(w, http.StatusBadRequest, false, "Invalid form data.")
		return
	}
	username := formValue(r, "username")
	password := formValue(r, "password")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeResult(w, http.StatusUnauthorized, false, msgBadCredentials)
			return
		}
		h.log.Error("login lookup failed", zap.String("username", username), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, msgLoginFailed)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		writeResult(w, http.StatusUnauthorized, false, msgBadCredentials)
		return
	}

	token, err := issueToken(user.Username, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Error("token issue failed", zap.String("username", username), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, msgLoginFailed)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: msgLoginOK,
		User: &types.SessionUser{
			Username: user.Username,
			Email:    user.Email,
			Phone:    user.Phone,
			Role:     user.Role,
		},
		Token: token,
	})
}

// Signup hashes the password and inserts the account with role "user".
// Every failure, duplicate username included, collapses into one generic
// message.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeResult(w, http.StatusBadRequest, false, "Invalid form data.")
		return
	}
	username := formValue(r, "username")
	email := formValue(r, "email")
	password := formValue(r, "password")
	phone := formValue(r, "phone")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("password hash failed", zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, msgSignupFailed)
		return
	}

	err = h.users.Register(r.Context(), types.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashed),
	})
	if err != nil {
		h.log.Error("signup insert failed", zap.String("username", username), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, msgSignupFailed)
		return
	}

	writeResult(w, http.StatusOK, true, msgSignupOK)
}

func issueToken(username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
