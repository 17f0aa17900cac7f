package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
	"github.com/GoArmGo/Albumy/internal/usecase"
)

// runWorker превращает события из RabbitMQ в уведомления до отмены ctx
func runWorker(
	ctx context.Context,
	notificationUseCase usecase.NotificationUseCase,
	consumer ports.NotificationEventConsumer,
	logger *slog.Logger,
) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, event payloads.NotificationEvent) error {
		logger.Debug("processing notification event",
			"kind", event.Kind,
			"actor_id", event.ActorID,
			"receiver_id", event.ReceiverID,
		)
		return notificationUseCase.HandleEvent(ctx, event)
	}

	stopped, err := consumer.StartConsumingNotificationEvents(workerCtx, messageHandler)
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	logger.Info("worker started, waiting for events")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping worker")
		return nil
	case err := <-stopped:
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("канал закрыт без ошибки")
		}
		// процесс завершается, перезапуск выполняет супервизор
		logger.Error("consumer stopped unexpectedly", "error", err)
		return fmt.Errorf("потребитель RabbitMQ остановился: %w", err)
	}
}
