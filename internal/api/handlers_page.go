package api

import (
	"net/http"
	"strings"

	"github.com/wondertwin-ai/videoinvite/internal/directory"
)

// rootIdentifier is echoed on the invalid-identifier page for GET /.
const rootIdentifier = "none"

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.renderInvalid(w, r, rootIdentifier)
}

// VideoMessage handles GET /{identifier}
// The identifier is taken from the escaped path and decoded exactly once.
// chi.URLParam would yield the raw segment only when URL.RawPath is set.
func (h *Handler) VideoMessage(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/")
	if !directory.Usable(directory.Decode(raw)) {
		h.renderInvalid(w, r, raw)
		return
	}

	p := h.dir.Resolve(raw)
	if err := h.pages.RenderVideo(w, p); err != nil {
		h.fail(w, r, err, nil)
	}
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.pages.RenderInvalid(w, id); err != nil {
		h.fail(w, r, err, nil)
	}
}
