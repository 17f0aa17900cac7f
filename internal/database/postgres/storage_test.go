package postgres

import (
	"context"
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/GoArmGo/Albumy/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserAndFollowStorage(t *testing.T) {
	sqlxDB := testutil.SetupTestDB(t)
	ctx := context.Background()

	db, err := NewGormDB(sqlxDB.DB)
	require.NoError(t, err)
	users := NewGormUserStorage(db, logger.Discard())
	follows := NewGormFollowStorage(db, logger.Discard())

	alice := &domain.User{Username: "alice", Email: "alice@example.com", Confirmed: true, Active: true}
	require.NoError(t, users.CreateUser(ctx, alice))
	require.NotZero(t, alice.ID)
	bob := &domain.User{Username: "bob", Email: "bob@example.com", Active: true}
	require.NoError(t, users.CreateUser(ctx, bob))

	got, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.True(t, got.Confirmed)

	_, err = users.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = users.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, follows.Follow(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, follows.Follow(ctx, bob.ID, alice.ID), domain.ErrAlreadyFollowing)

	ok, err := follows.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, follows.Unfollow(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, follows.Unfollow(ctx, bob.ID, alice.ID), domain.ErrNotFollowing)
}
