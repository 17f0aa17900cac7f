package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

type notificationUseCase struct {
	notificationStorage ports.NotificationStorage
	userStorage         ports.UserStorage
	logger              *slog.Logger
}

// NewNotificationUseCase создает новый экземпляр NotificationUseCase
func NewNotificationUseCase(
	notificationStorage ports.NotificationStorage,
	userStorage ports.UserStorage,
	logger *slog.Logger,
) NotificationUseCase {
	return &notificationUseCase{
		notificationStorage: notificationStorage,
		userStorage:         userStorage,
		logger:              logger,
	}
}

// ListNotifications получает уведомления пользователя, новые первыми
func (uc *notificationUseCase) ListNotifications(ctx context.Context, user *domain.User, filter domain.NotificationFilter, page, perPage int) (*domain.NotificationPage, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if err := domain.ValidatePage(page, perPage); err != nil {
		return nil, err
	}

	unreadOnly := filter == domain.NotificationFilterUnread
	items, total, err := uc.notificationStorage.ListNotifications(ctx, user.ID, unreadOnly, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения уведомлений: %w", err)
	}

	unread, err := uc.notificationStorage.CountUnread(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка подсчета непрочитанных: %w", err)
	}

	return &domain.NotificationPage{
		Page:        domain.NewPage(items, page, perPage, total),
		UnreadCount: unread,
	}, nil
}

// MarkRead отмечает уведомление прочитанным. Повторный вызов ничего не меняет
func (uc *notificationUseCase) MarkRead(ctx context.Context, user *domain.User, notificationID int64) error {
	if err := requireUser(user); err != nil {
		return err
	}

	n, err := uc.notificationStorage.GetNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.ReceiverID != user.ID {
		return fmt.Errorf("%w: уведомление %d принадлежит другому пользователю", domain.ErrForbidden, notificationID)
	}
	if n.IsRead {
		return nil
	}
	return uc.notificationStorage.MarkRead(ctx, notificationID)
}

// MarkAllRead отмечает прочитанными все уведомления пользователя
func (uc *notificationUseCase) MarkAllRead(ctx context.Context, user *domain.User) (int64, error) {
	if err := requireUser(user); err != nil {
		return 0, err
	}

	n, err := uc.notificationStorage.MarkAllRead(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("usecase: ошибка отметки уведомлений: %w", err)
	}
	uc.logger.Info("notifications marked read", "receiver_id", user.ID, "count", n)
	return n, nil
}

// HandleEvent создает уведомление получателю события
func (uc *notificationUseCase) HandleEvent(ctx context.Context, event payloads.NotificationEvent) error {
	if event.ActorID <= 0 || event.ReceiverID <= 0 {
		return fmt.Errorf("%w: событие без участников %+v", domain.ErrInvalidInput, event)
	}

	actor, err := uc.userStorage.GetUserByID(ctx, event.ActorID)
	if err != nil {
		return fmt.Errorf("usecase: автор события %d: %w", event.ActorID, err)
	}

	var message string
	switch event.Kind {
	case payloads.EventCollect:
		message = fmt.Sprintf("Пользователь %s добавил ваше фото #%d в коллекцию.", actor.Username, event.PhotoID)
	case payloads.EventFollow:
		message = fmt.Sprintf("Пользователь %s подписался на вас.", actor.Username)
	default:
		return fmt.Errorf("%w: неизвестный тип события %q", domain.ErrInvalidInput, event.Kind)
	}

	n := &domain.Notification{ReceiverID: event.ReceiverID, Message: message}
	if err := uc.notificationStorage.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("usecase: ошибка создания уведомления: %w", err)
	}

	uc.logger.Info("notification created", "notification_id", n.ID, "receiver_id", n.ReceiverID, "kind", event.Kind)
	return nil
}
