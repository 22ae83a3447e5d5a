package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// Repository provides PostgreSQL backed persistence for notifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a notification, generating an ID when absent.
func (r *Repository) Create(ctx context.Context, n Notification) (*Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications (id, recipient_id, title, message, category, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, COALESCE($6, NOW()))
		RETURNING created_at`

	var createdAt any
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt
	}
	err := r.pool.QueryRow(ctx, query,
		n.ID, n.RecipientID, n.Title, n.Message, string(n.Category), createdAt,
	).Scan(&n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("notification: create: %w", err)
	}
	n.Read = false
	return &n, nil
}

// ListByRecipient returns notifications addressed to a recipient or broadcast,
// newest first.
func (r *Repository) ListByRecipient(ctx context.Context, recipientID int64, onlyUnread bool) ([]Notification, error) {
	query := `
		SELECT id, recipient_id, title, message, category, is_read, created_at
		FROM notifications
		WHERE (recipient_id = $1 OR recipient_id IS NULL)`
	if onlyUnread {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("notification: list: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Category, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notification: scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips the read flag. Marking an already read notification is a
// no-op.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND is_read = FALSE`, id)
	if err != nil {
		return fmt.Errorf("notification: mark read: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("notification: probe: %w", err)
	}
	if !exists {
		return fmt.Errorf("notification %s: %w", id, shared.ErrNotFound)
	}
	return nil
}
