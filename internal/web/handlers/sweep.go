package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/frame-diff/internal/dataset"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// SweepHandler runs sweeps as background jobs.
type SweepHandler struct {
	index      dataset.Index
	differ     *framediff.Differ
	jobManager *JobManager
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(index dataset.Index, differ *framediff.Differ, jm *JobManager) *SweepHandler {
	return &SweepHandler{
		index:      index,
		differ:     differ,
		jobManager: jm,
	}
}

// SweepRequest represents a sweep start request
type SweepRequest struct {
	Video    string `json:"video"`
	Question int    `json:"question"`
}

// Start validates the request and starts a sweep job.
func (h *SweepHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Video == "" {
		respondError(w, http.StatusBadRequest, "video is required")
		return
	}

	frames, err := h.index.FrameCount(req.Video)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if _, err := h.index.Answers(req.Video, req.Question); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if frames < 2 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%v: %q has %d", framediff.ErrNotEnoughFrames, req.Video, frames))
		return
	}

	// The request context ends when this handler returns.
	ctx, cancel := context.WithCancel(context.Background())
	job := h.jobManager.CreateJob(uuid.New().String(), req.Video, req.Question, cancel)
	job.mu.Lock()
	job.TotalPairs = frames - 1
	job.mu.Unlock()

	go h.runSweepJob(ctx, job)

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":      job.ID,
		"video":       req.Video,
		"total_pairs": frames - 1,
		"status":      string(JobStatusPending),
	})
}

// Status returns the status of a sweep job
func (h *SweepHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events streams job events via SSE
func (h *SweepHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job.(*SweepJob).Snapshot()
		},
	)
}

// Cancel cancels a sweep job
func (h *SweepHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// runSweepJob runs the sweep in the background. A job cancelled while the
// sweep was in flight stays cancelled whatever the sweep returns.
func (h *SweepHandler) runSweepJob(ctx context.Context, job *SweepJob) {
	defer close(job.done)
	defer job.cancel()

	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: EventStarted, Message: "Sweep started"})

	result, err := h.differ.Sweep(ctx, framediff.SweepRequest{
		Video:    job.Video,
		Question: job.Question,
		OnProgress: func(info framediff.ProgressInfo) {
			job.mu.Lock()
			job.DonePairs = info.Current
			job.Progress = info.Current * 100 / info.Total
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: EventProgress, Data: info})
		},
	})

	now := time.Now()
	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.CompletedAt = &now
	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		job.mu.Unlock()
		slog.Error("sweep job failed", "job", job.ID, "video", sanitizeForLog(job.Video), "error", err)
		job.SendEvent(JobEvent{Type: EventJobError, Message: err.Error()})
		return
	}
	job.Status = JobStatusCompleted
	job.Result = result
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: EventCompleted, Data: result})
}
