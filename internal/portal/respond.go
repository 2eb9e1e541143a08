package portal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/session"
)

type envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *errorDetail   `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// render writes view as a full page, or as an element patch for datastar.
func (p *Portal) render(w http.ResponseWriter, r *http.Request, status int, view templ.Component) {
	var err error
	if guard.IsDataStar(r) {
		err = datastar.NewSSE(w, r).PatchElementTempl(view)
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		err = page(view).Render(r.Context(), w)
	}
	if err != nil {
		p.log.ErrorContext(r.Context(), "render failed", logger.Error(err))
	}
}

func statusFor(err error) int {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, apiclient.ErrSessionTerminated),
		errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, rbac.ErrInsufficientPermissions):
		return http.StatusForbidden
	case errors.Is(err, apiclient.ErrUnknownResource),
		errors.Is(err, apiclient.ErrUnknownMetric):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		return apiErr.StatusCode
	case errors.Is(err, apiclient.ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrSessionTerminated):
		return "session_terminated"
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, apiclient.ErrForbidden),
		errors.Is(err, rbac.ErrInsufficientPermissions):
		return "forbidden"
	case errors.Is(err, apiclient.ErrNotFound),
		errors.Is(err, apiclient.ErrUnknownResource),
		errors.Is(err, apiclient.ErrUnknownMetric):
		return "not_found"
	case errors.Is(err, apiclient.ErrValidation):
		return "validation_failed"
	case errors.Is(err, apiclient.ErrNetwork):
		return "api_unreachable"
	default:
		return "api_error"
	}
}
