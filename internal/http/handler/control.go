package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/scheduler"
	"habitfree/internal/service"
)

// SchedulerController abstracts scheduler operations for handlers.
type SchedulerController interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	RunNow(ctx context.Context, date string) (service.DeliveryReport, error)
}

// ControlHandler handles scheduler control endpoints.
type ControlHandler struct {
	scheduler SchedulerController
	logger    *log.Logger
}

// NewControlHandler creates a new instance.
func NewControlHandler(s SchedulerController, l *log.Logger) *ControlHandler {
	return &ControlHandler{scheduler: s, logger: logger.Named(l, "http")}
}

// Start triggers the scheduler loop.
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Start(context.Background()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			status = http.StatusBadRequest
		}
		writeFailure(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response{"success": true, "status": "started"})
}

// Stop halts the scheduler loop.
func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Stop(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrNotRunning) {
			status = http.StatusBadRequest
		}
		writeFailure(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response{"success": true, "status": "stopped"})
}

// Status reports whether the loop is running.
func (h *ControlHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := "stopped"
	if h.scheduler.IsRunning() {
		status = "running"
	}
	writeJSON(w, http.StatusOK, response{"success": true, "status": status})
}

// Run delivers one batch immediately, for the optional date form value.
func (h *ControlHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduler.RunNow(r.Context(), r.FormValue("date"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{"success": true, "report": report})
}
