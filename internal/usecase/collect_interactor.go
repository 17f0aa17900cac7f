package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

type collectUseCase struct {
	photoStorage   ports.PhotoStorage
	collectStorage ports.CollectStorage
	publisher      ports.NotificationEventPublisher
	logger         *slog.Logger
}

// NewCollectUseCase создает новый экземпляр CollectUseCase
func NewCollectUseCase(
	photoStorage ports.PhotoStorage,
	collectStorage ports.CollectStorage,
	publisher ports.NotificationEventPublisher,
	logger *slog.Logger,
) CollectUseCase {
	return &collectUseCase{
		photoStorage:   photoStorage,
		collectStorage: collectStorage,
		publisher:      publisher,
		logger:         logger,
	}
}

// Collect добавляет фото в коллекцию пользователя и уведомляет автора
func (uc *collectUseCase) Collect(ctx context.Context, user *domain.User, photoID int64) error {
	if err := requirePermission(user, domain.PermissionCollect); err != nil {
		return err
	}

	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return err
	}

	if err := uc.collectStorage.CreateCollect(ctx, user.ID, photoID); err != nil {
		return err
	}
	uc.logger.Info("photo collected", "photo_id", photoID, "collector_id", user.ID)

	if photo.AuthorID == user.ID {
		return nil
	}

	event := payloads.NotificationEvent{
		Kind:       payloads.EventCollect,
		ActorID:    user.ID,
		ReceiverID: photo.AuthorID,
		PhotoID:    photoID,
	}
	// коллекция уже сохранена, потеря уведомления не отменяет действие
	if err := uc.publisher.PublishNotificationEvent(ctx, event); err != nil {
		uc.logger.Error("failed to publish collect notification", "photo_id", photoID, "error", err)
	}
	return nil
}

// Uncollect убирает фото из коллекции пользователя
func (uc *collectUseCase) Uncollect(ctx context.Context, user *domain.User, photoID int64) error {
	if err := requireUser(user); err != nil {
		return err
	}

	if _, err := uc.photoStorage.GetPhotoByID(ctx, photoID); err != nil {
		return err
	}

	if err := uc.collectStorage.DeleteCollect(ctx, user.ID, photoID); err != nil {
		return err
	}
	uc.logger.Info("photo uncollected", "photo_id", photoID, "collector_id", user.ID)
	return nil
}

// ListCollectors получает страницу коллекционеров фото, ранние первыми
func (uc *collectUseCase) ListCollectors(ctx context.Context, photoID int64, page, perPage int) (domain.Page[domain.Collect], error) {
	if err := domain.ValidatePage(page, perPage); err != nil {
		return domain.Page[domain.Collect]{}, err
	}

	if _, err := uc.photoStorage.GetPhotoByID(ctx, photoID); err != nil {
		return domain.Page[domain.Collect]{}, err
	}

	collects, total, err := uc.collectStorage.ListCollectors(ctx, photoID, page, perPage)
	if err != nil {
		return domain.Page[domain.Collect]{}, fmt.Errorf("usecase: ошибка получения коллекционеров фото %d: %w", photoID, err)
	}
	return domain.NewPage(collects, page, perPage, total), nil
}
