package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellpull/internal/db"
)

// Store manages persistence of audit entries.
type Store struct {
	db *db.DB
}

// NewStore creates a new audit store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record appends an entry to the trail.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.ActorType == "" {
		e.ActorType = ActorSystem
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, timestamp, actor_type, actor_id, action, scope, scope_id, summary, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.ActorType, e.ActorID, e.Action, e.Scope, e.ScopeID, e.Summary, e.Detail,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting audit entry: %w", err)
	}
	return &e, nil
}

// List returns entries matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query := `SELECT id, timestamp, actor_type, actor_id, action, scope, scope_id, summary, detail
		 FROM audit_entries WHERE 1=1`
	args := []interface{}{}

	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if filter.Scope != "" {
		query += " AND scope = ?"
		args = append(args, filter.Scope)
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorType, &e.ActorID, &e.Action, &e.Scope, &e.ScopeID, &e.Summary, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
