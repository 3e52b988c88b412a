package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/internal/store"
	"github.com/folioweb/siteserver/types"
	"go.uber.org/zap"
)

const msgPermissionDenied = "Permission denied."

// UserListResponse always carries the users array, empty included.
type UserListResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Users   []string `json:"users"`
}

type contextKey string

const contextUsernameKey contextKey = "username"

// AdminHandler serves the admin user-lookup routes.
type AdminHandler struct {
	users  *services.UserService
	secret []byte
	log    *zap.Logger
}

func NewAdminHandler(users *services.UserService, jwtSecret string, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{
		users:  users,
		secret: []byte(jwtSecret),
		log:    log,
	}
}

// RequireAdmin authenticates the bearer token and checks the stored role
// of the token's subject. The caller's claimed identity is never trusted:
// the role comes from the users table on every request.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeResult(w, http.StatusUnauthorized, false, msgPermissionDenied)
			return
		}

		subject, err := parseTokenSubject(tokenString, h.secret)
		if err != nil {
			writeResult(w, http.StatusUnauthorized, false, msgPermissionDenied)
			return
		}

		user, err := h.users.GetByUsername(r.Context(), subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeResult(w, http.StatusUnauthorized, false, msgPermissionDenied)
				return
			}
			h.log.Error("admin role lookup failed", zap.String("username", subject), zap.Error(err))
			writeResult(w, http.StatusInternalServerError, false, "Error checking permissions.")
			return
		}

		if !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeResult(w, http.StatusForbidden, false, msgPermissionDenied)
			return
		}

		ctx := context.WithValue(r.Context(), contextUsernameKey, user.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SearchUser is the exact-match lookup behind the autocomplete selection.
func (h *AdminHandler) SearchUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeResult(w, http.StatusBadRequest, false, "Username parameter is required.")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeResult(w, http.StatusNotFound, false, fmt.Sprintf("User %q not found.", username))
			return
		}
		h.log.Error("admin user search failed", zap.String("username", username), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, "Error searching for user.")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "User found.",
		User:    &profile,
	})
}

// SearchUsersAutocomplete returns usernames containing q, alphabetically.
func (h *AdminHandler) SearchUsersAutocomplete(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	usernames, err := h.users.SearchUsernames(r.Context(), term)
	if err != nil {
		h.log.Error("autocomplete search failed", zap.String("q", term), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, "Error fetching user list.")
		return
	}

	if usernames == nil {
		usernames = []string{}
	}
	writeJSON(w, http.StatusOK, UserListResponse{
		Success: true,
		Message: "User list retrieved.",
		Users:   usernames,
	})
}
