package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"habitfree/internal/service"
)

// response is the {success, message?, ...} envelope every endpoint returns.
type response map[string]any

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{"success": false, "message": message})
}

// writeError maps service error kinds to statuses. Anything unclassified is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeFailure(w, statusFor(svcErr.Kind), svcErr.Message)
		return
	}

	logger.Error("request failed", "err", err)
	writeFailure(w, http.StatusInternalServerError, "Internal server error")
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// userID reads the user_id form or query value, writing a 400 when it is
// missing or malformed.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.FormValue("user_id")
	if raw == "" {
		writeFailure(w, http.StatusBadRequest, "User ID required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeFailure(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return id, true
}

// pathID reads the numeric {id} route parameter, writing a 404 otherwise.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return 0, false
	}
	return id, true
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return def
}

// NotFound handles unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeFailure(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed handles known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Recoverer turns panics into a generic 500 response.
func Recoverer(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.Error("unhandled panic", "method", r.Method, "path", r.URL.Path, "panic", rvr)
				writeFailure(w, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
