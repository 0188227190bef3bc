package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/frame-diff/internal/constants"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job event types. Completed, job_error and cancelled end a job's event stream.
const (
	EventStarted   = "started"
	EventProgress  = "progress"
	EventCompleted = "completed"
	EventJobError  = "job_error"
	EventCancelled = "cancelled"
)

// SweepJob represents a sweep running in the background.
type SweepJob struct {
	EventBroadcaster

	ID          string
	Video       string
	Question    int
	Status      JobStatus
	Progress    int
	TotalPairs  int
	DonePairs   int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Result      *framediff.SweepResult

	done chan struct{}
}

// SweepJobView is the JSON form of a SweepJob.
type SweepJobView struct {
	ID          string                 `json:"id"`
	Video       string                 `json:"video"`
	Question    int                    `json:"question"`
	Status      JobStatus              `json:"status"`
	Progress    int                    `json:"progress"`
	TotalPairs  int                    `json:"total_pairs"`
	DonePairs   int                    `json:"done_pairs"`
	Error       string                 `json:"error,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Result      *framediff.SweepResult `json:"result,omitempty"`
}

// GetStatus returns the current job status (implements SSEJob).
func (j *SweepJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Done is closed once the job's worker has returned.
func (j *SweepJob) Done() <-chan struct{} {
	return j.done
}

// Snapshot returns a copy of the job fields safe to encode while the job runs.
func (j *SweepJob) Snapshot() SweepJobView {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return SweepJobView{
		ID:          j.ID,
		Video:       j.Video,
		Question:    j.Question,
		Status:      j.Status,
		Progress:    j.Progress,
		TotalPairs:  j.TotalPairs,
		DonePairs:   j.DonePairs,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Result:      j.Result,
	}
}

// Cancel cancels the sweep job.
func (j *SweepJob) Cancel() {
	j.mu.Lock()
	if isJobTerminal(j.Status) {
		j.mu.Unlock()
		return
	}
	j.Status = JobStatusCancelled
	now := time.Now()
	j.CompletedAt = &now
	j.mu.Unlock()
	j.EventBroadcaster.Cancel()
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	b.mu.RLock()
	cancel := b.cancel
	b.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	b.SendEvent(JobEvent{Type: EventCancelled, Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async jobs. Finished jobs are kept for the retention
// period so clients can still fetch their results.
type JobManager struct {
	jobs      map[string]*SweepJob
	retention time.Duration
	mu        sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:      make(map[string]*SweepJob),
		retention: constants.FinishedJobRetention,
	}
}

// CreateJob registers a pending sweep job whose work is cancelled through cancel.
func (m *JobManager) CreateJob(id, video string, question int, cancel context.CancelFunc) *SweepJob {
	job := &SweepJob{
		ID:        id,
		Video:     video,
		Question:  question,
		Status:    JobStatusPending,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	job.cancel = cancel

	m.PruneFinished(job.StartedAt)

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// PruneFinished removes jobs that finished more than the retention period before now.
func (m *JobManager) PruneFinished(now time.Time) {
	for _, job := range m.ListJobs() {
		snap := job.Snapshot()
		if isJobTerminal(snap.Status) && snap.CompletedAt != nil && now.Sub(*snap.CompletedAt) > m.retention {
			m.DeleteJob(snap.ID)
		}
	}
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *SweepJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*SweepJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*SweepJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CancelAll cancels every job that has not finished yet.
func (m *JobManager) CancelAll() {
	for _, job := range m.ListJobs() {
		job.Cancel()
	}
}
