package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellpull/internal/db"
)

// Store manages persistence of notifications.
type Store struct {
	db *db.DB
}

// NewStore creates a new notification store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create persists a notification.
func (s *Store) Create(ctx context.Context, n Notification) (*Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}
	n.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling payload: %w", err)
	}
	if n.Payload == nil {
		payload = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, type, severity, title, message, payload, delivered, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Severity, n.Title, n.Message, string(payload), n.Delivered, n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return &n, nil
}

// MarkDelivered flags a notification as delivered to the webhook.
func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking delivered: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

// List returns notifications matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Notification, error) {
	query := `SELECT id, type, severity, title, message, payload, delivered, created_at
		 FROM notifications WHERE 1=1`
	args := []interface{}{}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var payload string
		if err := rows.Scan(&n.ID, &n.Type, &n.Severity, &n.Title, &n.Message, &payload, &n.Delivered, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &n.Payload); err != nil {
			return nil, fmt.Errorf("decoding payload: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
