package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/validator"
)

var (
	ErrUnauthorized      = errors.New("apiclient.unauthorized")
	ErrForbidden         = errors.New("apiclient.forbidden")
	ErrNotFound          = errors.New("apiclient.not_found")
	ErrConflict          = errors.New("apiclient.conflict")
	ErrValidation        = errors.New("apiclient.validation")
	ErrServer            = errors.New("apiclient.server_error")
	ErrNetwork           = errors.New("apiclient.network_error")
	ErrInvalidResponse   = errors.New("apiclient.invalid_response")
	ErrNoRefreshToken    = errors.New("apiclient.no_refresh_token")
	ErrNotAuthenticated  = errors.New("apiclient.not_authenticated")
	ErrSessionTerminated = errors.New("apiclient.session_terminated")
	ErrUnknownResource   = errors.New("apiclient.unknown_resource")
	ErrUnknownMetric     = errors.New("apiclient.unknown_metric")
	ErrInvalidBaseURL    = errors.New("apiclient.invalid_base_url")
)

// Error is a non-2xx answer from the server.
type Error struct {
	StatusCode int
	Message    string // human readable, from the "message" or "error" field
	Body       []byte
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes the status sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

func newError(status int, body []byte) *Error {
	return &Error{StatusCode: status, Message: errorMessage(status, body), Body: body}
}

func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		var s string
		if json.Unmarshal(payload.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// Message returns the user facing message carried by err, or a generic one.
func Message(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, rbac.ErrInsufficientPermissions):
		return "Your role does not allow this action."
	case validator.IsValidationError(err):
		return validator.ExtractValidationErrors(err).Error()
	case errors.Is(err, ErrNetwork):
		return "The server could not be reached. Try again later."
	case errors.Is(err, ErrSessionTerminated):
		return "Your session has expired. Sign in again."
	default:
		return "Unexpected error."
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}
