// Package repo provides PostgreSQL-backed persistence adapters.
package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"deckgen/internal/domain"
)

// JobRepositoryPG archives terminal jobs in PostgreSQL. The live job state
// machine stays in memory; the archive exists for history and debugging.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository constructs a new job archive instance.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// SaveTerminal persists a job that reached a terminal state. Re-archiving the
// same job id overwrites the previous row.
func (r *JobRepositoryPG) SaveTerminal(ctx context.Context, job domain.Job) error {
	errorKind, errorMessage := "", ""
	if job.Error != nil {
		errorKind = string(job.Error.Kind)
		errorMessage = job.Error.Message
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO jobs (id, state, topic, theme, slide_count, artifact_path, error_kind, error_message, created_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (id) DO UPDATE SET
	state = EXCLUDED.state,
	slide_count = EXCLUDED.slide_count,
	artifact_path = EXCLUDED.artifact_path,
	error_kind = EXCLUDED.error_kind,
	error_message = EXCLUDED.error_message,
	finished_at = EXCLUDED.finished_at;
`, job.ID, string(job.State), job.Input.Topic, string(job.Params.Theme),
		job.SlideCount, job.ArtifactPath, errorKind, errorMessage, job.CreatedAt)
	return err
}

// ArchivedJob is one archived terminal job row.
type ArchivedJob struct {
	ID           string          `json:"id"`
	State        domain.JobState `json:"state"`
	Topic        string          `json:"topic,omitempty"`
	Theme        string          `json:"theme"`
	SlideCount   int             `json:"slide_count"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// ListRecent returns the most recently finished jobs, newest first.
func (r *JobRepositoryPG) ListRecent(ctx context.Context, limit int) ([]ArchivedJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, state, topic, theme, slide_count, error_kind, error_message, created_at, finished_at
FROM jobs
ORDER BY finished_at DESC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []ArchivedJob
	for rows.Next() {
		var job ArchivedJob
		if err := rows.Scan(&job.ID, &job.State, &job.Topic, &job.Theme, &job.SlideCount,
			&job.ErrorKind, &job.ErrorMessage, &job.CreatedAt, &job.FinishedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// PruneOlderThan removes archive rows finished before the cutoff and returns
// the number of rows removed.
func (r *JobRepositoryPG) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE finished_at < $1;`, time.Now().Add(-age))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
