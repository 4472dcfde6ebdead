package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores the notification inbox in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds an inbox repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts one delivered notification.
func (r *PostgresRepository) Save(ctx context.Context, n Notification) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO notifications (id, recipient, message, severity, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		id, n.Recipient, n.Message, string(n.Severity), n.Read, n.CreatedAt.UTC())
	return err
}

// ListByRecipient returns a recipient's inbox, newest first.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, recipient string) ([]Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, recipient, message, severity, read, created_at
        FROM notifications WHERE recipient = $1 ORDER BY created_at DESC`, recipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var id uuid.UUID
		var severity string
		if err := rows.Scan(&id, &n.Recipient, &n.Message, &severity, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.ID = id.String()
		n.Severity = Severity(severity)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one notification as read. The recipient is part of the match
// so users cannot acknowledge each other's inboxes.
func (r *PostgresRepository) MarkRead(ctx context.Context, id, recipient string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient = $2`, nid, recipient)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
