package domain

import "time"

// JobState enumerates job lifecycle states. The five working states form the
// pipeline; Completed, Failed and Cancelled are terminal.
type JobState string

const (
	JobStateQueued    JobState = "queued"
	JobStateIngesting JobState = "ingesting"
	JobStatePlanning  JobState = "planning"
	JobStateEnriching JobState = "enriching"
	JobStateRendering JobState = "rendering"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
	JobStateCancelled JobState = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	switch s {
	case JobStateCompleted, JobStateFailed, JobStateCancelled:
		return true
	}
	return false
}

// Percent maps a state onto the coarse progress scale reported by Poll.
func (s JobState) Percent() int {
	switch s {
	case JobStateIngesting:
		return 20
	case JobStatePlanning:
		return 40
	case JobStateEnriching:
		return 60
	case JobStateRendering:
		return 80
	case JobStateCompleted:
		return 100
	}
	return 0
}

// Input describes what a job generates from: a topic string, or a previously
// uploaded document referenced by path. Exactly one must be set. Flowcharts
// optionally carries caller-written shorthand diagrams ("A->B;B->C") that
// become dedicated slides after the generated outline.
type Input struct {
	Topic        string
	DocumentPath string
	Flowcharts   []string
}

// StageTiming records when a pipeline stage started and ended.
type StageTiming struct {
	State     JobState
	StartedAt time.Time
	EndedAt   time.Time
}

// CapturedError is the failure detail preserved on a terminal job.
type CapturedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Job is the full lifecycle record of one generation request. It is mutated
// exclusively by the orchestrator; an artifact path exists if and only if the
// job completed.
type Job struct {
	ID           string
	State        JobState
	Input        Input
	Params       Params
	CreatedAt    time.Time
	Timings      []StageTiming
	SlideCount   int
	ArtifactPath string
	Error        *CapturedError
}

// Snapshot is the non-blocking view of a job returned by Poll.
type Snapshot struct {
	JobID        string         `json:"job_id"`
	State        JobState       `json:"state"`
	Stage        string         `json:"stage"`
	Percent      int            `json:"percent"`
	SlideCount   int            `json:"slide_count,omitempty"`
	ArtifactPath string         `json:"artifact_path,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	Error        *CapturedError `json:"error,omitempty"`
}
