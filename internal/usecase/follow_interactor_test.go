package usecase_test

import (
	"context"
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.follows.Follow(ctx, f.bob, f.alice.ID))
	assert.ErrorIs(t, f.follows.Follow(ctx, f.bob, f.alice.ID), domain.ErrAlreadyFollowing)

	events := f.store.PublishedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, payloads.EventFollow, events[0].Kind)
	assert.Equal(t, f.alice.ID, events[0].ReceiverID)

	require.NoError(t, f.follows.Unfollow(ctx, f.bob, f.alice.ID))
	assert.ErrorIs(t, f.follows.Unfollow(ctx, f.bob, f.alice.ID), domain.ErrNotFollowing)
}

func TestFollowRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unconfirmed := f.store.AddUser("newbie", false, domain.RoleUser)

	assert.ErrorIs(t, f.follows.Follow(ctx, nil, f.alice.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, f.follows.Follow(ctx, unconfirmed, f.alice.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.follows.Follow(ctx, f.bob, f.bob.ID), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.follows.Follow(ctx, f.bob, 9999), domain.ErrNotFound)
	assert.ErrorIs(t, f.follows.Unfollow(ctx, f.bob, 9999), domain.ErrNotFound)
}
