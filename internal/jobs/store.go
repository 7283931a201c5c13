package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellpull/internal/db"
)

// Store manages persistence of import jobs.
type Store struct {
	db *db.DB
}

// NewStore creates a new job store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a pending job.
func (s *Store) Create(ctx context.Context, sourceFile, originalName string) (*Job, error) {
	j := Job{
		ID:           uuid.New().String(),
		Status:       StatusPending,
		SourceFile:   sourceFile,
		OriginalName: originalName,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_jobs (id, status, source_file, original_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.Status, j.SourceFile, j.OriginalName, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return &j, nil
}

// Get retrieves a job by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	var j Job
	var datasetID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, source_file, original_name, dataset_id, total, processed, message, error, created_at, updated_at
		 FROM import_jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.Status, &j.SourceFile, &j.OriginalName, &datasetID, &j.Total, &j.Processed, &j.Message, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting job: %w", err)
	}
	j.DatasetID = datasetID.String
	return &j, nil
}

// SetRunning transitions a job to running.
func (s *Store) SetRunning(ctx context.Context, id string) error {
	return s.update(ctx, id,
		`UPDATE import_jobs SET status = ?, message = ?, updated_at = ? WHERE id = ?`,
		StatusRunning, "Procesando archivo...", time.Now().UTC(), id)
}

// UpdateProgress records row-level progress.
func (s *Store) UpdateProgress(ctx context.Context, id string, processed, total int) error {
	return s.update(ctx, id,
		`UPDATE import_jobs SET processed = ?, total = ?, updated_at = ? WHERE id = ?`,
		processed, total, time.Now().UTC(), id)
}

// Complete transitions a job to completed and links the resulting dataset.
func (s *Store) Complete(ctx context.Context, id, datasetID, message string) error {
	return s.update(ctx, id,
		`UPDATE import_jobs SET status = ?, dataset_id = ?, message = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted, datasetID, message, time.Now().UTC(), id)
}

// Fail transitions a job to failed with the given error text.
func (s *Store) Fail(ctx context.Context, id, errText string) error {
	return s.update(ctx, id,
		`UPDATE import_jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, errText, time.Now().UTC(), id)
}

func (s *Store) update(ctx context.Context, id, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
