package guard

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var loadingTemplate = template.Must(template.New("loading").Parse(
	`<!DOCTYPE html><html><head><meta charset="utf-8">` +
		`<meta http-equiv="refresh" content="{{.}}">` +
		`<title>Loading</title></head>` +
		`<body><div id="session-loading" aria-busy="true">Loading…</div></body></html>`))

// LoadingView is the neutral placeholder shown while the session starts.
// The page reloads itself after retryAfter seconds.
func LoadingView(retryAfter int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return loadingTemplate.Execute(w, retryAfter)
	})
}
