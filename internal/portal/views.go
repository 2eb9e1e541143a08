package portal

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/hrportal/pkg/session"
)

var views = template.Must(template.New("portal").Parse(`
{{define "shell-open"}}<!DOCTYPE html><html><head><meta charset="utf-8"><title>HR Portal</title></head><body>{{end}}
{{define "shell-close"}}</body></html>{{end}}
{{define "login"}}<main id="login"><h1>Sign in</h1>
{{- if .Message}}<p class="toast" role="alert">{{.Message}}</p>{{end -}}
<form method="post" action="/login"><input type="email" name="email" value="{{.Email}}" required><input type="password" name="password" required><button type="submit">Sign in</button></form></main>{{end}}
{{define "dashboard"}}<main id="dashboard"><header>
{{- if .User}}<span class="user">{{.User}}</span> <span class="role">{{.Role}}</span>{{end -}}
<form method="post" action="/logout"><button type="submit">Sign out</button></form></header><nav><ul class="resources">
{{- range .Resources}}<li><a href="/data/{{.}}">{{.}}</a></li>{{end -}}
</ul><ul class="metrics">
{{- range .Metrics}}<li><a href="/data/dashboard/{{.}}">{{.}}</a></li>{{end -}}
</ul></nav></main>{{end}}
`))

// view renders a named template as a component. html/template escapes every
// value for its context, so callers pass raw strings.
func view(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return views.ExecuteTemplate(w, name, data)
	})
}

// page wraps a view in the document shell.
func page(body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := views.ExecuteTemplate(w, "shell-open", nil); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return views.ExecuteTemplate(w, "shell-close", nil)
	})
}

// loginView renders the sign in form. message is the server's toast text.
func loginView(email, message string) templ.Component {
	return view("login", struct{ Email, Message string }{email, message})
}

func dashboardView(s session.Snapshot, resources, metrics []string) templ.Component {
	data := struct {
		User, Role         string
		Resources, Metrics []string
	}{Resources: resources, Metrics: metrics}
	if s.User != nil {
		data.User = displayName(s)
		data.Role = string(s.User.Role)
	}
	return view("dashboard", data)
}

func displayName(s session.Snapshot) string {
	switch {
	case s.User.Name != "":
		return s.User.Name
	case s.User.Email != "":
		return s.User.Email
	default:
		return s.User.ID.String()
	}
}
