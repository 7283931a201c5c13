package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wellpull/internal/db"
)

// sessionCookie identifies the operator's planning session.
const sessionCookie = "wellpull_session"

// Session is the operator's progress through the upload → filter → select
// pipeline. It lives in SQLite so a restart does not lose the flow.
type Session struct {
	ID           string
	DatasetID    string
	Zonas        []string
	PullingCount int
}

// SlotChoice is the well chosen for one pulling rig.
type SlotChoice struct {
	Slot           int
	Pozo           string
	RemainingHours float64
}

// SessionStore manages persistence of planning sessions.
type SessionStore struct {
	db *db.DB
}

// NewSessionStore creates a new session store.
func NewSessionStore(database *db.DB) *SessionStore {
	return &SessionStore{db: database}
}

// Ensure returns the session for the request's cookie, creating both the
// cookie and the row as needed.
func (s *SessionStore) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		sess, err := s.Get(ctx, c.Value)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return sess, nil
		}
		// Stale cookie: fall through and mint a fresh session.
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)`, id, now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return &Session{ID: id}, nil
}

// Get retrieves a session by ID, or nil if it does not exist.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	var datasetID sql.NullString
	var zonas string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, dataset_id, zonas, pulling_count FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &datasetID, &zonas, &sess.PullingCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	sess.DatasetID = datasetID.String
	if err := json.Unmarshal([]byte(zonas), &sess.Zonas); err != nil {
		return nil, fmt.Errorf("decoding zones: %w", err)
	}
	return &sess, nil
}

// SetDataset binds a dataset to the session and resets any downstream
// filter and slot state.
func (s *SessionStore) SetDataset(ctx context.Context, id, datasetID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET dataset_id = ?, zonas = '[]', pulling_count = 0, updated_at = ? WHERE id = ?`,
		datasetID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting dataset: %w", err)
	}
	return s.clearSlots(ctx, id)
}

// SetFilter stores the selected zones and pulling count, resetting any
// previously chosen slots.
func (s *SessionStore) SetFilter(ctx context.Context, id string, zonas []string, pullingCount int) error {
	data, err := json.Marshal(zonas)
	if err != nil {
		return fmt.Errorf("encoding zones: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET zonas = ?, pulling_count = ?, updated_at = ? WHERE id = ?`,
		string(data), pullingCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting filter: %w", err)
	}
	return s.clearSlots(ctx, id)
}

// SetSlots replaces the session's pulling slot choices.
func (s *SessionStore) SetSlots(ctx context.Context, id string, choices []SlotChoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pulling_slots WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	for _, c := range choices {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pulling_slots (session_id, slot, pozo, remaining_hours) VALUES (?, ?, ?, ?)`,
			id, c.Slot, c.Pozo, c.RemainingHours)
		if err != nil {
			return fmt.Errorf("inserting slot %d: %w", c.Slot, err)
		}
	}
	return tx.Commit()
}

// Slots returns the session's slot choices in slot order.
func (s *SessionStore) Slots(ctx context.Context, id string) ([]SlotChoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, pozo, remaining_hours FROM pulling_slots WHERE session_id = ? ORDER BY slot`, id)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var choices []SlotChoice
	for rows.Next() {
		var c SlotChoice
		if err := rows.Scan(&c.Slot, &c.Pozo, &c.RemainingHours); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

func (s *SessionStore) clearSlots(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pulling_slots WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	return nil
}
