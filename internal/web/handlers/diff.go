package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// DiffHandler runs frame diffs against the configured model.
type DiffHandler struct {
	differ *framediff.Differ
}

// NewDiffHandler creates a new diff handler
func NewDiffHandler(differ *framediff.Differ) *DiffHandler {
	return &DiffHandler{differ: differ}
}

// DiffRequest represents a diff request body
type DiffRequest struct {
	Video    string `json:"video"`
	Question int    `json:"question"`
	From     int    `json:"from"`
	To       *int   `json:"to"` // defaults to from+1
}

// Create describes the changes between two frames.
func (h *DiffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Video == "" {
		respondError(w, http.StatusBadRequest, "video is required")
		return
	}

	to := req.From + 1
	if req.To != nil {
		to = *req.To
	}

	result, err := h.differ.Diff(r.Context(), framediff.Request{
		Video:    req.Video,
		Question: req.Question,
		From:     req.From,
		To:       to,
	})
	if err != nil {
		status := diffErrorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("frame diff failed", "video", sanitizeForLog(req.Video), "error", err)
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func diffErrorStatus(err error) int {
	switch {
	case isLookupError(err):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrBatchTooLarge), errors.Is(err, ai.ErrEmptyDialog), errors.Is(err, ai.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
