package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"segd/internal/manager"
	"segd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusError is an HTTPError raised by the HTTP layer itself.
type statusError struct {
	status int
	msg    string
}

func (e statusError) Error() string   { return e.msg }
func (e statusError) StatusCode() int { return e.status }

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case manager.IsNotInitialized(err):
		if strictStatus {
			return http.StatusConflict
		}
		return http.StatusOK
	case errors.As(err, &he):
		return he.StatusCode()
	case manager.IsInvalidRequest(err):
		return http.StatusBadRequest
	case manager.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	if kind, ok := manager.ResourceOf(err); ok && kind == manager.ResourceImage {
		return http.StatusUnprocessableEntity
	}
	// model load, serialization and inference failures
	return http.StatusInternalServerError
}

// errServerShutdown answers requests whose work was cut short by shutdown.
var errServerShutdown = statusError{status: http.StatusServiceUnavailable, msg: "server shutting down"}

// shutdownError replaces err with errServerShutdown when ctx ended because the
// server base context did.
func shutdownError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), errShuttingDown) {
		return errServerShutdown
	}
	return err
}

// writeError writes err as a JSON error payload and returns the status used.
// The not-initialized payload keeps the legacy shape without a code.
func writeError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	if manager.IsNotInitialized(err) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: err.Error()})
		return status
	}
	writeJSONError(w, status, err.Error())
	return status
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
