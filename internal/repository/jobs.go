package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"docfusion/constants"
	"docfusion/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_jobs (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	format     TEXT NOT NULL,
	status     TEXT NOT NULL,
	backends   TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	elapsed_ms INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extraction_jobs_created_at ON extraction_jobs (created_at);
`

// Job is one audit row for a processed document.
type Job struct {
	ID        string
	Filename  string
	Format    string
	Status    constants.JobStatus
	Backends  []string
	Error     string
	ElapsedMS int64
	CreatedAt time.Time
}

// JobStore persists extraction job audit rows in sqlite.
type JobStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenJobStore(path string, logger *slog.Logger) (*JobStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open job store")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "migrate job store")
	}
	return &JobStore{db: db, logger: logger}, nil
}

func (s *JobStore) Close() error {
	return s.db.Close()
}

// Record inserts one job row. A missing ID or timestamp is filled in.
func (s *JobStore) Record(ctx context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_jobs (id, filename, format, status, backends, error, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Filename, job.Format, string(job.Status),
		strings.Join(job.Backends, ","), job.Error, job.ElapsedMS, job.CreatedAt,
	)
	return common.WrapError(err, "record job")
}

// Recent returns the newest job rows, capped at limit.
func (s *JobStore) Recent(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, format, status, backends, error, elapsed_ms, created_at
		 FROM extraction_jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list jobs")
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var job Job
		var status, backends string
		if err := rows.Scan(&job.ID, &job.Filename, &job.Format, &status,
			&backends, &job.Error, &job.ElapsedMS, &job.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan job")
		}
		job.Status = constants.JobStatus(status)
		if backends != "" {
			job.Backends = strings.Split(backends, ",")
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
