// Package page renders the HTML pages: the personal video message, the
// invalid-identifier page and the error page.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/wondertwin-ai/videoinvite/internal/directory"
	"github.com/wondertwin-ai/videoinvite/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	PageIndex   = "index"
	PageWrongID = "wrongid"
	PageError   = "error"
)

const titlePrefix = "Een boodschap voor "

// VideoPage is the template context for the personal video message.
type VideoPage struct {
	Title  string
	Person directory.Person
	MP4    string
	OGG    string
	WebM   string
}

// WrongIDPage is the template context for unusable identifiers.
type WrongIDPage struct {
	ID string
}

// ErrorPage is the template context for error responses. Stack is only
// filled in development mode.
type ErrorPage struct {
	Status  int
	Message string
	Stack   string
}

// Renderer executes the embedded templates.
type Renderer struct {
	videoRoot string
	pages     map[string]*template.Template
	metrics   *metrics.Metrics
}

// New parses every page together with the shared layout.
func New(videoRoot string, m *metrics.Metrics) (*Renderer, error) {
	r := &Renderer{
		videoRoot: videoRoot,
		pages:     make(map[string]*template.Template),
		metrics:   m,
	}
	for _, name := range []string{PageIndex, PageWrongID, PageError} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Video derives the page context for p. The three media URLs share the
// stem of p.Video and differ only in extension.
func (r *Renderer) Video(p directory.Person) VideoPage {
	stem := strings.TrimSuffix(p.Video, path.Ext(p.Video))
	return VideoPage{
		Title:  titlePrefix + p.Name,
		Person: p,
		MP4:    r.mediaURL(p.Video),
		OGG:    r.mediaURL(stem + ".ogg"),
		WebM:   r.mediaURL(stem + ".webm"),
	}
}

func (r *Renderer) mediaURL(name string) string {
	if r.videoRoot == "" {
		return name
	}
	return strings.TrimSuffix(r.videoRoot, "/") + "/" + strings.TrimPrefix(name, "/")
}

// RenderVideo writes the personal video page for p.
func (r *Renderer) RenderVideo(w http.ResponseWriter, p directory.Person) error {
	return r.render(w, http.StatusOK, PageIndex, r.Video(p))
}

// RenderInvalid writes the invalid-identifier page echoing id.
func (r *Renderer) RenderInvalid(w http.ResponseWriter, id string) error {
	return r.render(w, http.StatusOK, PageWrongID, WrongIDPage{ID: id})
}

// RenderError writes the error page with the given status.
func (r *Renderer) RenderError(w http.ResponseWriter, e ErrorPage) error {
	if e.Status == 0 {
		e.Status = http.StatusInternalServerError
	}
	return r.render(w, e.Status, PageError, e)
}

// render buffers the output so a template failure never leaves a
// half-written response behind.
func (r *Renderer) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	r.metrics.Page(name)
	return err
}
