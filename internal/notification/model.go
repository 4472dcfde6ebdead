package notification

import (
	"context"
	"errors"
	"time"
)

// ErrNotificationNotFound indicates the inbox holds no such row for the recipient.
var ErrNotificationNotFound = errors.New("notification not found")

// Notification is a delivered event at rest in a recipient's inbox.
type Notification struct {
	ID        string
	Recipient string
	Message   string
	Severity  Severity
	Read      bool
	CreatedAt time.Time
}

// Repository persists the notification inbox.
type Repository interface {
	Save(ctx context.Context, n Notification) error
	ListByRecipient(ctx context.Context, recipient string) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipient string) error
}
