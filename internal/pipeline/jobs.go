package pipeline

import (
	"encoding/hex"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// JobStatus represents the state of a render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRendering JobStatus = "rendering"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCached    JobStatus = "cached"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCached
}

// Overrides replace document metadata found by the importer.
type Overrides struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Class  string `json:"class,omitempty"`
}

// Job tracks the state of a single document render.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Overrides Overrides `json:"overrides"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	ContentKey string    `json:"content_key"`
	Result     Result    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Result describes the rendered output of a job.
type Result struct {
	Title    string   `json:"title"`
	Bytes    int      `json:"bytes"`
	Nodes    int      `json:"nodes"`
	Packages []string `json:"packages"`
}

// NewJob creates a queued job for the given upload.
func NewJob(filename string, data []byte, ov Overrides) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.New().String(),
		Filename:   filename,
		Overrides:  ov,
		Status:     StatusQueued,
		Phase:      "queued",
		ContentKey: ContentKey(filename, data, ov),
		CreatedAt:  now,
		UpdatedAt:  now,
		fileData:   data,
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
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
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
	j.UpdatedAt = time.Now()
}

// SetResult records what the render produced.
func (j *Job) SetResult(r Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Result = r
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once it is no longer needed.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	Overrides  Overrides `json:"overrides"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	ContentKey string    `json:"content_key"`
	Result     Result    `json:"result"`
	Errors     []string  `json:"errors"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	res := j.Result
	res.Packages = append([]string{}, j.Result.Packages...)
	return JobSnapshot{
		ID:         j.ID,
		Filename:   j.Filename,
		Overrides:  j.Overrides,
		Status:     j.Status,
		Phase:      j.Phase,
		ContentKey: j.ContentKey,
		Result:     res,
		Errors:     errs,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

// ContentKey identifies a render by everything that affects its output:
// the importer (chosen by extension), the overrides and the bytes.
// Fields are NUL-separated so adjacent values cannot run together.
func ContentKey(filename string, data []byte, ov Overrides) string {
	h := blake3.New()
	for _, part := range []string{
		strings.ToLower(filepath.Ext(filename)),
		ov.Title,
		ov.Author,
		ov.Class,
	} {
		h.WriteString(part)
		h.Write([]byte{0})
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
