package handler

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/model"
)

// MessageService is what MessageHandler needs from the message service.
type MessageService interface {
	Create(ctx context.Context, userID int64, text, date string) (model.Message, error)
	List(ctx context.Context, userID int64) ([]model.Message, error)
	Delete(ctx context.Context, userID, id int64) error
	ToggleMask(ctx context.Context, userID, id int64) (model.Message, error)
}

// DeliveryHistory lists past deliveries.
type DeliveryHistory interface {
	ListDelivered(ctx context.Context, userID int64, page, limit int) (model.DeliveredPage, error)
}

// MessageHandler provides HTTP endpoints for messages.
type MessageHandler struct {
	messages MessageService
	history  DeliveryHistory
	logger   *log.Logger
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages MessageService, history DeliveryHistory, l *log.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, history: history, logger: logger.Named(l, "http")}
}

// List handles GET /get_messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	messages, err := h.messages.List(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}

	writeJSON(w, http.StatusOK, response{"success": true, "messages": messages})
}

// Create handles POST /inbox.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	text, date := r.FormValue("message"), r.FormValue("date")
	if r.FormValue("user_id") == "" || text == "" || date == "" {
		writeFailure(w, http.StatusBadRequest, "All fields required")
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	msg, err := h.messages.Create(r.Context(), uid, text, date)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success":      true,
		"message":      "Message saved successfully",
		"message_data": msg,
	})
}

// Delete handles DELETE /delete_message/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.messages.Delete(r.Context(), uid, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{"success": true, "message": "Message deleted successfully"})
}

// ToggleMask handles POST /toggle_message_mask/{id}.
func (h *MessageHandler) ToggleMask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	msg, err := h.messages.ToggleMask(r.Context(), uid, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success":      true,
		"message":      "Message mask toggled successfully",
		"message_data": msg,
	})
}

// ListDelivered handles GET /delivered.
func (h *MessageHandler) ListDelivered(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	result, err := h.history.ListDelivered(r.Context(), uid, page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success":    true,
		"deliveries": result.Deliveries,
		"total":      result.Total,
		"page":       result.Page,
		"limit":      result.Limit,
	})
}
