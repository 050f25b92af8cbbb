package httpx

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/placementhub/portal-api/internal/domain/view"
)

// pageTemplate is the minimal shell the portal serves for page routes.
// The client-side bundle hydrates against the embedded session state.
const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Placement Portal</title>
</head>
<body data-view="{{.View}}" data-path="{{.Path}}">
  <div id="root">
    {{- if .Authenticated}}
    <p>Signed in as {{.FullName}}</p>
    {{- else}}
    <p>Not signed in</p>
    {{- end}}
  </div>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Path          string
	View          string
	Authenticated bool
	FullName      string
}

// PageHandlers serves the guarded page shell. The route guard middleware
// has already redirected anyone who should not see the destination, so
// Show only renders.
type PageHandlers struct {
	Logger *slog.Logger
}

// Show renders the page shell for the current destination.
func (h *PageHandlers) Show(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())

	d := pageData{
		Path:          r.URL.Path,
		View:          view.Resolve(sess.Role()).String(),
		Authenticated: sess.IsAuthenticated,
	}
	if sess.Identity != nil {
		d.FullName = sess.Identity.FullName
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, d); err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "render page", "error", err)
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
