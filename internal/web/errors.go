package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with whatever the service returned; the
// technical error is logged with the request id, the status code is
// derived from the error's class, and the client sees the user-facing
// message produced by core.MapError.

import (
	"errors"
	"net/http"

	"vendas-backend/internal/core"
	"vendas-backend/internal/logging"
)

// respondError logs err and writes the matching JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	// Field-level validation failures keep their structured shape
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, status, map[string]interface{}{"errors": vErr.Fields})
		return
	}

	writeError(w, status, userMsg.Message)
}

// statusFor maps an error class to its HTTP status code.
func statusFor(err error) int {
	var vErr *core.ValidationError
	var sErr *core.StorageError

	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidID),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrEmptyFilename),
		errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &sErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
