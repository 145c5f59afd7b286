// Package api implements the invitation site's HTTP handlers.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/wondertwin-ai/videoinvite/internal/directory"
	"github.com/wondertwin-ai/videoinvite/internal/httpcore"
	"github.com/wondertwin-ai/videoinvite/internal/mail"
	"github.com/wondertwin-ai/videoinvite/internal/metrics"
	"github.com/wondertwin-ai/videoinvite/internal/page"
	"github.com/wondertwin-ai/videoinvite/internal/respond"
)

// Deps are the collaborators the handlers need. Outbox is optional and only
// set when the memory transport is in use. Admin mounts /admin/* and
// /metrics outside development.
type Deps struct {
	Directory  *directory.Directory
	Pages      *page.Renderer
	Responses  *respond.Service
	Outbox     *mail.MemoryTransport
	Metrics    *metrics.Metrics
	Middleware *httpcore.Middleware
	Logger     *slog.Logger
	Dev        bool
	Admin      bool
}

// Handler holds all API handler state.
type Handler struct {
	dir       *directory.Directory
	pages     *page.Renderer
	responses *respond.Service
	outbox    *mail.MemoryTransport
	metrics   *metrics.Metrics
	mw        *httpcore.Middleware
	logger    *slog.Logger
	dev       bool
	admin     bool
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dir:       d.Directory,
		pages:     d.Pages,
		responses: d.Responses,
		outbox:    d.Outbox,
		metrics:   d.Metrics,
		mw:        d.Middleware,
		logger:    logger,
		dev:       d.Dev,
		admin:     d.Dev || d.Admin,
	}
}

// Routes mounts the page, REST and admin routes. Routes are flat so that a
// single-segment path like /rest or /admin still reaches the identifier page.
// Admin and metrics routes are only mounted in development or when enabled.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.recoverer)
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)

	r.Get("/", h.Root)
	r.Get("/{identifier}", h.VideoMessage)

	r.Post("/rest/accept", h.Accept)
	r.Post("/rest/decline", h.Decline)

	if !h.admin {
		return
	}
	r.Get("/admin/health", h.AdminHealth)
	r.Get("/admin/requests", h.AdminRequests)
	r.Post("/admin/reset", h.AdminReset)
	r.Get("/admin/outbox", h.AdminOutbox)
	r.Get("/admin/outbox/{id}", h.AdminOutboxMessage)
	if h.metrics != nil {
		r.Method("GET", "/metrics", h.metrics.Handler())
	}
}
