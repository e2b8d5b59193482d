package handler

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/model"
)

// UserService is what AuthHandler needs from the user service.
type UserService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (model.User, error)
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  UserService
	logger *log.Logger
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users UserService, l *log.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger.Named(l, "http")}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("registered user", "username", user.Username, "id", user.ID)
	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Registration successful",
		"user_id": user.ID,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Login successful",
		"user_id": user.ID,
	})
}
