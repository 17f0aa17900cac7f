package ports

import (
	"context"

	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

// NotificationEventPublisher определяет методы для публикации событий, из которых
// воркер создает уведомления. Используется сервисами коллекций и подписок
type NotificationEventPublisher interface {
	PublishNotificationEvent(ctx context.Context, event payloads.NotificationEvent) error
}

// NotificationEventConsumer определяет методы для потребления событий уведомлений
// будет использоваться воркером для получения задач из очереди
type NotificationEventConsumer interface {
	// StartConsumingNotificationEvents начинает прослушивание очереди
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения.
	// Возвращенный канал закрывается, когда потребление остановилось; если оно остановилось
	// не из-за отмены ctx, перед закрытием в канал отправляется причина
	StartConsumingNotificationEvents(ctx context.Context, handler func(context.Context, payloads.NotificationEvent) error) (<-chan error, error)
}
