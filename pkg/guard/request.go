package guard

import (
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	hxRequest  = "HX-Request"
	hxRedirect = "HX-Redirect"

	datastarAccept     = "text/event-stream"
	datastarQueryParam = "datastar"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(hxRequest) == "true"
}

// IsDataStar reports whether r was issued by datastar.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), datastarAccept) {
		return true
	}
	if r.URL.Query().Has(datastarQueryParam) {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}

// Redirect navigates the client to url in the way the client understands.
func Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	switch {
	case IsDataStar(r):
		return datastar.NewSSE(w, r).Redirect(url)
	case IsHTMX(r):
		w.Header().Set(hxRedirect, url)
		w.WriteHeader(http.StatusNoContent)
		return nil
	default:
		http.Redirect(w, r, url, http.StatusSeeOther)
		return nil
	}
}
