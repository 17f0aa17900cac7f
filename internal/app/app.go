package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/Albumy/internal/config"
	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/usecase"
)

type App struct {
	Config              *config.Config
	logger              *slog.Logger
	router              http.Handler
	notificationUseCase usecase.NotificationUseCase
	eventConsumer       ports.NotificationEventConsumer
	closers             []func() error
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	notificationUseCase usecase.NotificationUseCase,
	eventConsumer ports.NotificationEventConsumer,
	closers ...func() error,
) *App {
	return &App{
		Config:              cfg,
		logger:              logger,
		router:              router,
		notificationUseCase: notificationUseCase,
		eventConsumer:       eventConsumer,
		closers:             closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в режиме server или worker и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.router, a.logger)
	case "worker":
		err = runWorker(ctx, a.notificationUseCase, a.eventConsumer, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения в обратном порядке
func (a *App) Shutdown() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
