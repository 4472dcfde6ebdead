package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service is the consumer-side of the pipeline: it lands delivered events in
// the recipient's inbox and serves the read API.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds the notification service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Deliver persists one event as an inbox row. Delivery is idempotence-tolerant
// by construction: a duplicated event at worst stores a duplicate inbox row
// and never touches any balance.
func (s *Service) Deliver(ctx context.Context, event Event) error {
	if event.Recipient == "" {
		return fmt.Errorf("notification without recipient")
	}
	severity := event.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	n := Notification{
		ID:        uuid.NewString(),
		Recipient: event.Recipient,
		Message:   event.Message,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	s.logger.Info("notification delivered",
		"recipient", n.Recipient, "severity", string(n.Severity), "message", n.Message)
	return nil
}

// Inbox lists a recipient's notifications, newest first.
func (s *Service) Inbox(ctx context.Context, recipient string) ([]Notification, error) {
	return s.repo.ListByRecipient(ctx, recipient)
}

// MarkRead acknowledges one notification.
func (s *Service) MarkRead(ctx context.Context, id, recipient string) error {
	return s.repo.MarkRead(ctx, id, recipient)
}
