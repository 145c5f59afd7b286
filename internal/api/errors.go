package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/wondertwin-ai/videoinvite/internal/page"
)

// HTTPError carries a response status through the error renderer.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ErrNotFound is forwarded to the error renderer for unmatched routes.
var ErrNotFound = &HTTPError{Status: http.StatusNotFound, Err: errors.New("Not Found")}

func statusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) && he.Status != 0 {
		return he.Status
	}
	return http.StatusInternalServerError
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, ErrNotFound, nil)
}

// fail renders err as an HTML error page. Development mode shows the error
// message and stack; otherwise only the status text is shown.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, stack []byte) {
	status := statusOf(err)

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"err", err,
		)
	}

	data := page.ErrorPage{Status: status, Message: http.StatusText(status)}
	if h.dev {
		if stack == nil {
			stack = debug.Stack()
		}
		data.Message = err.Error()
		data.Stack = string(stack)
		h.logger.DebugContext(r.Context(), "error stack", "err", err, "stack", data.Stack)
	}

	if renderErr := h.pages.RenderError(w, data); renderErr != nil {
		h.logger.ErrorContext(r.Context(), "rendering error page", "err", renderErr)
		http.Error(w, http.StatusText(status), status)
	}
}

// recoverer turns handler panics into 500 responses.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			h.fail(w, r, err, debug.Stack())
		}()
		next.ServeHTTP(w, r)
	})
}
