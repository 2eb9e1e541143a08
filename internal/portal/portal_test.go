package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/internal/portal"
	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/session"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// hrAPI answers like the HR backend. Passwords must be "x"; the role is
// taken from the local part of the email.
func hrAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "x" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		role, _, _ := strings.Cut(body.Email, "@")
		reply(w, http.StatusOK, map[string]any{
			"accessToken":  "t1",
			"refreshToken": "r1",
			"user":         map[string]any{"id": 1, "nome": "Ana", "email": body.Email, "perfil": role},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("GET /employees", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": 7, "nome": "Rui", "departamento": r.URL.Query().Get("departamento")},
		}})
	})
	mux.HandleFunc("GET /employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": r.PathValue("id")})
	})
	mux.HandleFunc("POST /employees", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = 8
		reply(w, http.StatusCreated, map[string]any{"data": rec})
	})
	mux.HandleFunc("DELETE /employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /departments/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("department %s deleted without the capability", r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"data": map[string]int{"employees": 42}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	handler http.Handler
	session *session.Manager
	store   *tokenstore.MemoryStore
}

func newFixture(t *testing.T, start bool, opts ...portal.Option) fixture {
	t.Helper()
	store := tokenstore.NewMemoryStore()
	api, err := apiclient.New(store, apiclient.WithBaseURL(hrAPI(t).URL))
	require.NoError(t, err)
	m := session.New(api, store)
	t.Cleanup(m.Close)
	if start {
		require.NoError(t, m.Start(context.Background()))
	}
	p := portal.New(m, api, guard.New(), opts...)
	return fixture{handler: p.Routes(), session: m, store: store}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f fixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (f fixture) login(t *testing.T, email string) {
	t.Helper()
	rec := f.do(loginRequest(email, "x"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestPortal_Anonymous(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	rec := f.get("/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	for _, path := range []string{"/dashboard", "/data/employees", "/data/salary-tables", "/data/dashboard/stats"} {
		rec := f.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}

	rec = f.get("/login")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/login">`)
}

func TestPortal_Initializing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec := f.get("/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "session-loading")
	assert.NotContains(t, rec.Body.String(), "dashboard")
}

func TestPortal_Login(t *testing.T) {
	t.Parallel()

	t.Run("rejected credentials show the server message", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)

		rec := f.do(loginRequest("admin@hr.test", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Credenciais inválidas")
		assert.Contains(t, rec.Body.String(), `value="admin@hr.test"`)
		assert.Equal(t, session.StateAnonymous, f.session.State())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		rec := f.do(loginRequest("", ""))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email and password are required.")

		rec = f.do(loginRequest("admin", "x"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
		assert.Equal(t, session.StateAnonymous, f.session.State())
	})

	t.Run("success lands on the dashboard", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.login(t, "employee@hr.test")

		rec := f.get("/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `<span class="user">Ana</span>`)
		assert.Contains(t, body, "/data/dashboard/stats")
		assert.NotContains(t, body, `href="/data/employees"`)

		rec = f.get("/login")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("htmx login", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		req := loginRequest("admin@hr.test", "x")
		req.Header.Set("HX-Request", "true")

		rec := f.do(req)
		assert.Equal(t, "/dashboard", rec.Header().Get("HX-Redirect"))
		assert.True(t, f.session.Snapshot().IsAuthenticated)
	})
}

func TestPortal_RoleRequirements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email    string
		path     string
		wantCode int
		wantLoc  string
	}{
		{"analyst@hr.test", "/data/employees", http.StatusOK, ""},
		{"analyst@hr.test", "/data/salary-tables", http.StatusSeeOther, "/dashboard"},
		{"employee@hr.test", "/data/employees", http.StatusSeeOther, "/dashboard"},
		{"employee@hr.test", "/data/dashboard/stats", http.StatusOK, ""},
		{"admin@hr.test", "/data/employees/7", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.email+tt.path, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, true)
			f.login(t, tt.email)

			rec := f.get(tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestPortal_Data(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.login(t, "manager@hr.test")

	var list struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	rec := f.get("/data/employees?departamento=TI")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "TI", list.Data[0]["departamento"])
	assert.EqualValues(t, 1, list.Meta["count"])

	var metric struct {
		Data map[string]any `json:"data"`
	}
	rec = f.get("/data/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metric))
	assert.EqualValues(t, 42, metric.Data["employees"])

	rec = f.get("/data/dashboard/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestPortal_APIRejection(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.login(t, "manager@hr.test")

	entry, err := f.store.Get(context.Background())
	require.NoError(t, err)
	entry.AccessToken = "stale"
	require.NoError(t, f.store.Set(context.Background(), entry))

	rec := f.get("/data/employees")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unauthorized"`)
	assert.Contains(t, rec.Body.String(), "Token inválido")
}

func TestPortal_Logout(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.login(t, "admin@hr.test")

	rec := f.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, session.StateAnonymous, f.session.State())

	entry, err := f.store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, entry.Present())

	rec = f.get("/dashboard")
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPortal_Healthz(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec := f.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}

func TestPortal_CORS(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true, portal.WithCORS("http://app.test"))
	f.login(t, "admin@hr.test")

	preflight := httptest.NewRequest(http.MethodOptions, "/data/employees", nil)
	preflight.Header.Set("Origin", "http://app.test")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := f.do(preflight)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/data/employees", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = f.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPortal_Writes(t *testing.T) {
	t.Parallel()

	t.Run("analyst manages employees", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.login(t, "analyst@hr.test")

		rec := f.do(jsonRequest(http.MethodPost, "/data/employees", `{"nome":"Eva"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"id":8`)

		rec = f.do(httptest.NewRequest(http.MethodDelete, "/data/employees/8", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("analyst cannot delete departments", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.login(t, "analyst@hr.test")

		rec := f.do(httptest.NewRequest(http.MethodDelete, "/data/departments/3", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), `"forbidden"`)
	})

	t.Run("employee is sent home", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.login(t, "employee@hr.test")

		rec := f.do(jsonRequest(http.MethodPost, "/data/employees", `{"nome":"Eva"}`))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("body must be a JSON object", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.login(t, "admin@hr.test")

		form := httptest.NewRequest(http.MethodPost, "/data/employees", strings.NewReader("nome=Eva"))
		form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusUnsupportedMediaType, f.do(form).Code)

		rec := f.do(jsonRequest(http.MethodPost, "/data/employees", `[1,2]`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_body")
	})
}
