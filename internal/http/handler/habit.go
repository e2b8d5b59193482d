package handler

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/model"
)

// HabitService is what HabitHandler needs from the habit service.
type HabitService interface {
	Create(ctx context.Context, userID int64, name string) (model.Habit, error)
	List(ctx context.Context, userID int64) ([]model.Habit, error)
	Delete(ctx context.Context, userID, id int64) error
}

// HabitHandler serves the habit endpoints.
type HabitHandler struct {
	habits HabitService
	logger *log.Logger
}

// NewHabitHandler builds a HabitHandler.
func NewHabitHandler(habits HabitService, l *log.Logger) *HabitHandler {
	return &HabitHandler{habits: habits, logger: logger.Named(l, "http")}
}

// List handles GET /get_habits.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	habits, err := h.habits.List(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}

	writeJSON(w, http.StatusOK, response{"success": true, "habits": habits})
}

// Create handles POST /add.
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if r.FormValue("user_id") == "" || name == "" {
		writeFailure(w, http.StatusBadRequest, "User ID and habit name required")
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	habit, err := h.habits.Create(r.Context(), uid, name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Habit added successfully",
		"habit":   habit,
	})
}

// Delete handles DELETE /delete/{id}.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.habits.Delete(r.Context(), uid, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{"success": true, "message": "Habit deleted successfully"})
}
