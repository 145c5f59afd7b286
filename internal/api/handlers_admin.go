package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wondertwin-ai/videoinvite/internal/httpcore"
)

// AdminHealth handles GET /admin/health
func (h *Handler) AdminHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"people": h.dir.Len(),
	}
	if h.outbox != nil {
		resp["outbox"] = h.outbox.Len()
	}
	httpcore.JSON(w, http.StatusOK, resp)
}

// AdminRequests handles GET /admin/requests
func (h *Handler) AdminRequests(w http.ResponseWriter, r *http.Request) {
	if h.mw == nil {
		httpcore.JSON(w, http.StatusOK, []any{})
		return
	}
	httpcore.JSON(w, http.StatusOK, h.mw.ReqLog.Entries())
}

// AdminReset handles POST /admin/reset
// Clears the request log and, with the memory transport, the outbox.
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	if h.mw != nil {
		h.mw.ReqLog.Clear()
	}
	if h.outbox != nil {
		h.outbox.Reset()
	}
	h.logger.InfoContext(r.Context(), "admin state reset")
	httpcore.JSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// AdminOutbox handles GET /admin/outbox
// Supports ?limit={n} and ?cursor={id} for pagination.
func (h *Handler) AdminOutbox(w http.ResponseWriter, r *http.Request) {
	if h.outbox == nil {
		httpcore.Error(w, http.StatusNotFound, "outbox is only available with the memory transport")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			httpcore.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	httpcore.JSON(w, http.StatusOK, h.outbox.Outbox(r.URL.Query().Get("cursor"), limit))
}

// AdminOutboxMessage handles GET /admin/outbox/{id}
func (h *Handler) AdminOutboxMessage(w http.ResponseWriter, r *http.Request) {
	if h.outbox == nil {
		httpcore.Error(w, http.StatusNotFound, "outbox is only available with the memory transport")
		return
	}
	id := chi.URLParam(r, "id")
	entry, ok := h.outbox.Get(id)
	if !ok {
		httpcore.Error(w, http.StatusNotFound, "no message with id "+id)
		return
	}
	httpcore.JSON(w, http.StatusOK, entry)
}
