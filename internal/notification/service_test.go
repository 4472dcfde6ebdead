package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nova-bank/nova_bank/internal/logging"
)

func TestDeliverDefaultsToInfo(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, logging.Discard())
	ctx := context.Background()

	require.NoError(t, svc.Deliver(ctx, Event{Recipient: "alice", Message: "Deposit completed"}))

	inbox, err := svc.Inbox(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, SeverityInfo, inbox[0].Severity)
	require.Equal(t, "Deposit completed", inbox[0].Message)
	require.False(t, inbox[0].Read)
	require.NotEmpty(t, inbox[0].ID)
}

func TestDeliverRejectsMissingRecipient(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())

	err := svc.Deliver(context.Background(), Event{Message: "orphan"})
	require.Error(t, err)
}

func TestInboxIsPerRecipient(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())
	ctx := context.Background()

	require.NoError(t, svc.Deliver(ctx, Event{Recipient: "alice", Message: "a"}))
	require.NoError(t, svc.Deliver(ctx, Event{Recipient: "bob", Message: "b", Severity: SeverityWarning}))

	inbox, err := svc.Inbox(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, SeverityWarning, inbox[0].Severity)
}

func TestMarkRead(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())
	ctx := context.Background()

	require.NoError(t, svc.Deliver(ctx, Event{Recipient: "alice", Message: "a"}))
	inbox, err := svc.Inbox(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, inbox[0].ID, "alice"))

	inbox, err = svc.Inbox(ctx, "alice")
	require.NoError(t, err)
	require.True(t, inbox[0].Read)

	// Another recipient cannot acknowledge someone else's notification.
	require.ErrorIs(t, svc.MarkRead(ctx, inbox[0].ID, "bob"), ErrNotificationNotFound)
	require.ErrorIs(t, svc.MarkRead(ctx, "missing", "alice"), ErrNotificationNotFound)
}
