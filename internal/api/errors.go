package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/arcadehub/internal/hub"
)

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *log.Logger
	audit  *AuditLogger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *log.Logger, audit *AuditLogger) *ErrorHandler {
	return &ErrorHandler{logger: logger, audit: audit}
}

// statusFor maps hub error codes to HTTP status codes.
func statusFor(err error) (int, string) {
	var hubErr *hub.Error
	if !errors.As(err, &hubErr) {
		return http.StatusInternalServerError, "internal_error"
	}
	switch hubErr.Code {
	case hub.CodeUnauthenticated:
		return http.StatusUnauthorized, hubErr.Code
	case hub.CodeNoActiveSession:
		return http.StatusConflict, hubErr.Code
	case hub.CodeNotFound:
		return http.StatusNotFound, hubErr.Code
	case hub.CodeForbidden:
		return http.StatusForbidden, hubErr.Code
	case hub.CodeInvalidArgument:
		return http.StatusBadRequest, hubErr.Code
	default:
		return http.StatusInternalServerError, hubErr.Code
	}
}

// HandleError maps a hub error onto the HTTP envelope and logs it.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())
	status, errType := statusFor(err)

	message := err.Error()
	var hubErr *hub.Error
	if errors.As(err, &hubErr) {
		message = hubErr.Message
	}
	if status >= 500 {
		// Internal details stay in the log, not on the wire.
		message = "internal server error"
	}

	level := "ERROR"
	if status < 500 {
		level = "WARN"
	}
	eh.logger.Printf(
		"request_failed level=%s type=%s status=%d request_id=%s method=%s path=%s err=%q",
		level, errType, status, requestID, r.Method, r.URL.Path, err.Error(),
	)
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		eh.audit.LogAccessDenied(requestID, r.URL.Path, r.RemoteAddr, errType)
	}

	eh.writeErrorResponse(w, status, ErrorResponse{
		Type:      errType,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleValidationError handles request decoding and validation failures.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, message string) {
	eh.HandleError(w, r, hub.Errorf(hub.CodeInvalidArgument, "%s", message))
}

// writeErrorResponse writes the error response as JSON
func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Hub-Version", HubVersion)
	w.Header().Set("X-Error-Type", resp.Type)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Fallback to plain text if JSON encoding fails
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)
				eh.writeErrorResponse(w, http.StatusInternalServerError, ErrorResponse{
					Type:      "internal_error",
					Message:   fmt.Sprintf("internal server error (request %s)", requestID),
					RequestID: requestID,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
