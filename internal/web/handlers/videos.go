package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/frame-diff/internal/dataset"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// VideosHandler serves the frame index.
type VideosHandler struct {
	index  dataset.Index
	differ *framediff.Differ
}

// NewVideosHandler creates a new videos handler
func NewVideosHandler(index dataset.Index, differ *framediff.Differ) *VideosHandler {
	return &VideosHandler{
		index:  index,
		differ: differ,
	}
}

// VideoSummary is one entry of the video list.
type VideoSummary struct {
	Name   string `json:"name"`
	Frames int    `json:"frames"`
}

// PromptsResponse represents the prompts composed for a frame pair
type PromptsResponse struct {
	Video    string   `json:"video"`
	Question string   `json:"question"`
	From     int      `json:"from"`
	To       int      `json:"to"`
	Prompts  []string `json:"prompts"`
}

// List returns all indexed videos sorted by name.
func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.index.Videos()
	videos := make([]VideoSummary, 0, len(names))
	for _, name := range names {
		frames, err := h.index.FrameCount(name)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		videos = append(videos, VideoSummary{Name: name, Frames: frames})
	}
	respondJSON(w, http.StatusOK, videos)
}

// Index returns the answer lists of one video.
func (h *VideosHandler) Index(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	video, err := h.index.Video(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, video)
}

// Prompts composes the prompts for a frame pair without calling the model.
func (h *VideosHandler) Prompts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	query := r.URL.Query()

	req := framediff.Request{Video: name}
	var err error
	if req.Question, err = intParam(query.Get("question"), 0); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid question: %v", err))
		return
	}
	if req.From, err = intParam(query.Get("from"), 0); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid from: %v", err))
		return
	}
	if req.To, err = intParam(query.Get("to"), 1); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid to: %v", err))
		return
	}

	prompts, err := h.differ.Prompts(req)
	if err != nil {
		if isLookupError(err) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.Error("composing prompts failed", "video", sanitizeForLog(name), "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, PromptsResponse{
		Video:    name,
		Question: dataset.QuestionKey(req.Question),
		From:     req.From,
		To:       req.To,
		Prompts:  prompts,
	})
}

// intParam parses an optional integer query parameter.
func intParam(value string, defaultVal int) (int, error) {
	if value == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(value)
}
