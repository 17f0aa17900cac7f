package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

type followUseCase struct {
	userStorage   ports.UserStorage
	followStorage ports.FollowStorage
	publisher     ports.NotificationEventPublisher
	logger        *slog.Logger
}

// NewFollowUseCase создает новый экземпляр FollowUseCase
func NewFollowUseCase(
	userStorage ports.UserStorage,
	followStorage ports.FollowStorage,
	publisher ports.NotificationEventPublisher,
	logger *slog.Logger,
) FollowUseCase {
	return &followUseCase{
		userStorage:   userStorage,
		followStorage: followStorage,
		publisher:     publisher,
		logger:        logger,
	}
}

func (uc *followUseCase) Follow(ctx context.Context, user *domain.User, targetID int64) error {
	if err := requirePermission(user, domain.PermissionFollow); err != nil {
		return err
	}
	if targetID == user.ID {
		return fmt.Errorf("%w: нельзя подписаться на себя", domain.ErrInvalidInput)
	}

	if _, err := uc.userStorage.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if err := uc.followStorage.Follow(ctx, user.ID, targetID); err != nil {
		return err
	}
	uc.logger.Info("user followed", "follower_id", user.ID, "followed_id", targetID)

	event := payloads.NotificationEvent{
		Kind:       payloads.EventFollow,
		ActorID:    user.ID,
		ReceiverID: targetID,
	}
	if err := uc.publisher.PublishNotificationEvent(ctx, event); err != nil {
		uc.logger.Error("failed to publish follow notification", "followed_id", targetID, "error", err)
	}
	return nil
}

func (uc *followUseCase) Unfollow(ctx context.Context, user *domain.User, targetID int64) error {
	if err := requireUser(user); err != nil {
		return err
	}

	if _, err := uc.userStorage.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if err := uc.followStorage.Unfollow(ctx, user.ID, targetID); err != nil {
		return err
	}
	uc.logger.Info("user unfollowed", "follower_id", user.ID, "followed_id", targetID)
	return nil
}
