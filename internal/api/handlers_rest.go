package api

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/wondertwin-ai/videoinvite/internal/httpcore"
	"github.com/wondertwin-ai/videoinvite/internal/respond"
)

const maxBodyBytes = 64 << 10

// responseRequest is the accept/decline body, sent as JSON or as a form.
type responseRequest struct {
	Email     string `json:"email"`
	Reference string `json:"reference"`
}

func decodeResponseRequest(w http.ResponseWriter, r *http.Request) (responseRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req responseRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Email = r.PostForm.Get("email")
	req.Reference = r.PostForm.Get("reference")
	return req, nil
}

// Accept handles POST /rest/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResponseRequest(w, r)
	if err != nil {
		h.logger.InfoContext(r.Context(), "invalid accept body", "err", err)
		httpcore.JSON(w, http.StatusBadRequest, respond.ResultErr)
		return
	}
	httpcore.JSON(w, http.StatusOK, h.responses.Accept(r.Context(), req.Email, req.Reference))
}

// Decline handles POST /rest/decline
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResponseRequest(w, r)
	if err != nil {
		h.logger.InfoContext(r.Context(), "invalid decline body", "err", err)
		httpcore.JSON(w, http.StatusBadRequest, respond.ResultErr)
		return
	}
	httpcore.JSON(w, http.StatusOK, h.responses.Decline(r.Context(), req.Email))
}
