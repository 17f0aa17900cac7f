package usecase_test

import (
	"context"
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deliver передает опубликованные события обработчику, как это делает воркер
func deliver(t *testing.T, f *fixture) {
	t.Helper()
	for _, event := range f.store.PublishedEvents() {
		require.NoError(t, f.notifications.HandleEvent(context.Background(), event))
	}
}

func TestUnreadNotificationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo := f.store.AddPhoto(f.alice.ID, "")
	require.NoError(t, f.collects.Collect(ctx, f.bob, photo.ID))
	require.NoError(t, f.follows.Follow(ctx, f.bob, f.alice.ID))
	deliver(t, f)

	page, err := f.notifications.ListNotifications(ctx, f.alice, domain.NotificationFilterUnread, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.UnreadCount)
	require.Len(t, page.Items, 2)
	assert.Contains(t, page.Items[0].Message, "подписался")
	assert.Contains(t, page.Items[1].Message, "bob")

	first := page.Items[0].ID
	require.NoError(t, f.notifications.MarkRead(ctx, f.alice, first))
	// повторная отметка ничего не меняет
	require.NoError(t, f.notifications.MarkRead(ctx, f.alice, first))

	page, err = f.notifications.ListNotifications(ctx, f.alice, domain.NotificationFilterUnread, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.UnreadCount)
	require.Len(t, page.Items, 1)

	all, err := f.notifications.ListNotifications(ctx, f.alice, domain.NotificationFilterAll, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	n, err := f.notifications.MarkAllRead(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err = f.notifications.ListNotifications(ctx, f.alice, domain.NotificationFilterUnread, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.UnreadCount)
	assert.Empty(t, page.Items)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.notifications.HandleEvent(ctx, payloads.NotificationEvent{
		Kind: payloads.EventFollow, ActorID: f.bob.ID, ReceiverID: f.alice.ID,
	}))
	page, err := f.notifications.ListNotifications(ctx, f.alice, domain.NotificationFilterAll, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	err = f.notifications.MarkRead(ctx, f.bob, page.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.notifications.MarkRead(ctx, f.alice, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.notifications.ListNotifications(ctx, nil, domain.NotificationFilterAll, 1, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHandleEventRejectsBadEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		event   payloads.NotificationEvent
		wantErr error
	}{
		{"no actor", payloads.NotificationEvent{Kind: payloads.EventFollow, ReceiverID: f.alice.ID}, domain.ErrInvalidInput},
		{"unknown kind", payloads.NotificationEvent{Kind: "like", ActorID: f.bob.ID, ReceiverID: f.alice.ID}, domain.ErrInvalidInput},
		{"missing actor", payloads.NotificationEvent{Kind: payloads.EventFollow, ActorID: 9999, ReceiverID: f.alice.ID}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.notifications.HandleEvent(ctx, tt.event), tt.wantErr)
		})
	}
}
