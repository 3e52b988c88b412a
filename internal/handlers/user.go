package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/internal/store"
	"go.uber.org/zap"
)

// UserHandler serves the self-service profile lookup.
type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{users: users, log: log}
}

// UserInfo returns username/email/phone for the named user. The client
// uses it to populate the contact form after login.
func (h *UserHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))

	profile, err := h.users.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeResult(w, http.StatusNotFound, false, "User not found.")
			return
		}
		h.log.Error("user info fetch failed", zap.String("username", username), zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, "Error fetching user data")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "User found.",
		User:    &profile,
	})
}
