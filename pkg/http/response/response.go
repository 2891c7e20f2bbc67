// Package response provides the JSON envelope and error-mapping middleware
// shared by all HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/noteline/noteline/pkg/errors"
)

// HandlerFunc is an HTTP handler that reports failures by returning an error
// instead of writing the response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope for failed responses.
type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error"`
	ErrorType string                 `json:"error_type,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Middleware adapts a HandlerFunc into an http.HandlerFunc, converting
// returned application errors into the JSON error envelope.
func Middleware(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, err)
		}
	}
}

// WriteError writes err as a JSON error envelope with the status implied by
// its error type. Non-application errors become 500s with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("internal server error", err, nil)
	}

	body := ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	// Only configuration failures expose a machine-readable error type; the
	// web client switches on it to open the settings dialog.
	if appErr.Type == errors.ConfigurationError {
		body.ErrorType = string(errors.ConfigurationError)
	}

	writeJSON(w, statusFor(appErr.Type), body)
}

func statusFor(t errors.ErrorType) int {
	switch t {
	case errors.ValidationError, errors.ConfigurationError:
		return http.StatusBadRequest
	case errors.NotFoundError:
		return http.StatusNotFound
	case errors.UnauthorizedError:
		return http.StatusUnauthorized
	case errors.ForbiddenError:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteSuccess writes data wrapped in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) error {
	return writeJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteJSON writes v as-is, without the envelope.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	return writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}
