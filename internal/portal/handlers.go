package portal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/validator"
)

func (p *Portal) loginPage(w http.ResponseWriter, r *http.Request) {
	if p.session.Snapshot().IsAuthenticated {
		p.redirect(w, r, p.guard.HomePath())
		return
	}
	p.render(w, r, http.StatusOK, loginView("", ""))
}

func (p *Portal) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.render(w, r, http.StatusBadRequest, loginView("", "Invalid form."))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if err := validator.Apply(
		validator.Required("email", email),
		validator.Email("email", email),
		validator.Required("password", password),
	); err != nil {
		p.render(w, r, http.StatusUnprocessableEntity, loginView(email, loginHint(err)))
		return
	}

	if _, err := p.session.Login(r.Context(), email, password); err != nil {
		p.render(w, r, statusFor(err), loginView(email, apiclient.Message(err)))
		return
	}
	p.redirect(w, r, p.guard.HomePath())
}

func loginHint(err error) string {
	verrs := validator.ExtractValidationErrors(err)
	if verrs.Has("email") && len(verrs.Fields()) == 1 && verrs.Get("email")[0] != "field is required" {
		return "Enter a valid email address."
	}
	return "Email and password are required."
}

func (p *Portal) logout(w http.ResponseWriter, r *http.Request) {
	if err := p.session.Logout(r.Context()); err != nil {
		p.log.ErrorContext(r.Context(), "logout failed", logger.Error(err))
	}
	p.redirect(w, r, p.guard.LoginPath())
}

func (p *Portal) dashboard(w http.ResponseWriter, r *http.Request) {
	snap := p.session.Snapshot()
	p.render(w, r, http.StatusOK, dashboardView(snap, allowedResources(snap), apiclient.MetricNames()))
}

func (p *Portal) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.api.Resource(name)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		filter := make(apiclient.Filter)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				filter[key] = values[0]
			}
		}
		records, err := res.List(r.Context(), filter)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.log.DebugContext(r.Context(), "records listed", logger.Resource(name), slog.Int("count", len(records)))
		writeJSON(w, http.StatusOK, envelope{Data: records, Meta: map[string]any{"count": len(records)}})
	}
}

func (p *Portal) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.api.Resource(name)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		record, err := res.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Data: record})
	}
}

const maxRecordBytes = 1 << 20

// decodeRecord reads a JSON object body. Only application/json is accepted so
// that plain cross-site form posts never reach the API.
func decodeRecord(w http.ResponseWriter, r *http.Request) (apiclient.Record, bool) {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, envelope{Error: &errorDetail{Code: "unsupported_media_type", Message: "Send the record as application/json."}})
		return nil, false
	}
	var rec apiclient.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes)).Decode(&rec); err != nil || rec == nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: &errorDetail{Code: "invalid_body", Message: "The record must be a JSON object."}})
		return nil, false
	}
	return rec, true
}

func (p *Portal) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.api.Resource(name)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		in, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		out, err := res.Create(r.Context(), in)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.log.InfoContext(r.Context(), "record created", logger.Resource(name))
		writeJSON(w, http.StatusCreated, envelope{Data: out})
	}
}

func (p *Portal) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.api.Resource(name)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		in, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		out, err := res.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Data: out})
	}
}

func (p *Portal) remove(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.api.Resource(name)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")
		if err := res.Delete(r.Context(), id); err != nil {
			p.fail(w, r, err)
			return
		}
		p.log.InfoContext(r.Context(), "record deleted", logger.Resource(name), slog.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (p *Portal) metric(w http.ResponseWriter, r *http.Request) {
	data, err := p.api.Dashboard().Metric(r.Context(), chi.URLParam(r, "metric"))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

// fail reports an API error as JSON. A terminated session also redirects
// htmx and datastar clients to the login view.
func (p *Portal) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apiclient.ErrSessionTerminated) && (guard.IsHTMX(r) || guard.IsDataStar(r)) {
		p.redirect(w, r, p.guard.LoginPath())
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		p.log.ErrorContext(r.Context(), "api call failed", logger.Request(r.Method, r.URL.Path), logger.Error(err))
	}
	writeJSON(w, status, envelope{Error: &errorDetail{Code: errorCode(err), Message: apiclient.Message(err)}})
}

func (p *Portal) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if err := guard.Redirect(w, r, url); err != nil {
		p.log.ErrorContext(r.Context(), "redirect failed", logger.Error(err))
	}
}
