package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/examprep/internal/extract"
	"github.com/dgallion1/examprep/internal/parser"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusExtractingText JobStatus = "extracting_text"
	StatusChunking       JobStatus = "chunking"
	StatusAnalyzing      JobStatus = "analyzing"
	StatusAggregating    JobStatus = "aggregating"
	StatusFallback       JobStatus = "fallback"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
)

// statusForStage maps pipeline stages onto the job status vocabulary.
func statusForStage(s Stage) (JobStatus, bool) {
	switch s {
	case StageChunking:
		return StatusChunking, true
	case StageAnalyzing:
		return StatusAnalyzing, true
	case StageAggregating:
		return StatusAggregating, true
	case StageFallback:
		return StatusFallback, true
	}
	return "", false
}

// Job tracks the state of one uploaded set of past papers.
type Job struct {
	mu sync.Mutex

	ID        string
	Status    JobStatus
	Phase     string
	Filenames []string
	NumTopics int

	Progress Progress

	CreatedAt time.Time
	UpdatedAt time.Time

	// Internal: not serialized. uploads are dropped once text is extracted.
	uploads []parser.Upload
	result  *Result
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	Warnings        []string `json:"warnings"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job holding the given uploads.
func NewJob(uploads []parser.Upload, numTopics int) *Job {
	now := time.Now()
	names := make([]string, 0, len(uploads))
	for _, u := range uploads {
		names = append(names, u.Filename)
	}
	return &Job{
		ID:        NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filenames: names,
		NumTopics: numTopics,
		CreatedAt: now,
		UpdatedAt: now,
		uploads:   uploads,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddWarnings records non-fatal extraction problems.
func (j *Job) AddWarnings(warnings ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Warnings = append(j.Progress.Warnings, warnings...)
	j.UpdatedAt = time.Now()
}

// SetChunkProgress records chunk progress.
func (j *Job) SetChunkProgress(done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed = done
	j.Progress.TotalChunks = total
	j.UpdatedAt = time.Now()
}

// TakeUploads returns the uploaded files and releases the job's reference
// to them.
func (j *Job) TakeUploads() []parser.Upload {
	j.mu.Lock()
	defer j.mu.Unlock()
	ups := j.uploads
	j.uploads = nil
	return ups
}

// HasUploads reports whether raw file bytes are still held.
func (j *Job) HasUploads() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.uploads != nil
}

// Complete stores the prediction and marks the job done.
func (j *Job) Complete(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.Status = StatusCompleted
	j.Phase = "done"
	if res.Source == SourceFailed {
		j.Status = StatusFailed
		j.errors = append(j.errors, res.Failure)
		j.Progress.Errors = j.errors
	}
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string          `json:"job_id"`
	Status    JobStatus       `json:"status"`
	Phase     string          `json:"phase"`
	Filenames []string        `json:"filenames"`
	NumTopics int             `json:"num_topics"`
	Progress  Progress        `json:"progress"`
	Source    Source          `json:"source,omitempty"`
	Topics    []extract.Topic `json:"topics,omitempty"`
	Fallback  string          `json:"fallback_reason,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	warns := j.Progress.Warnings
	if warns == nil {
		warns = []string{}
	}
	snap := JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filenames: append([]string(nil), j.Filenames...),
		NumTopics: j.NumTopics,
		Progress: Progress{
			TotalChunks:     j.Progress.TotalChunks,
			ChunksProcessed: j.Progress.ChunksProcessed,
			Warnings:        append([]string{}, warns...),
			Errors:          append([]string{}, errs...),
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.result != nil {
		snap.Source = j.result.Source
		snap.Topics = append([]extract.Topic(nil), j.result.Topics...)
		snap.Fallback = j.result.FallbackReason
	}
	return snap
}
