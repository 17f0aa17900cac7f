package usecase_test

import (
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/GoArmGo/Albumy/internal/testutil"
	"github.com/GoArmGo/Albumy/internal/usecase"
)

type fixture struct {
	store         *testutil.MemStore
	photos        usecase.PhotoUseCase
	tags          usecase.TagUseCase
	collects      usecase.CollectUseCase
	notifications usecase.NotificationUseCase
	follows       usecase.FollowUseCase

	alice *domain.User
	bob   *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewMemStore()
	log := logger.Discard()

	return &fixture{
		store:         store,
		photos:        usecase.NewPhotoUseCase(store, store, store, store, store, log),
		tags:          usecase.NewTagUseCase(store, store, log),
		collects:      usecase.NewCollectUseCase(store, store, store, log),
		notifications: usecase.NewNotificationUseCase(store, store, log),
		follows:       usecase.NewFollowUseCase(store, store, store, log),
		alice:         store.AddUser("alice", true, domain.RoleUser),
		bob:           store.AddUser("bob", true, domain.RoleUser),
	}
}
