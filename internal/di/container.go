package di

import (
	"context"
	"fmt"

	"github.com/GoArmGo/Albumy/internal/adapter/storage/minio"
	"github.com/GoArmGo/Albumy/internal/app"
	"github.com/GoArmGo/Albumy/internal/auth"
	"github.com/GoArmGo/Albumy/internal/config"
	"github.com/GoArmGo/Albumy/internal/database/client"
	"github.com/GoArmGo/Albumy/internal/database/postgres"
	"github.com/GoArmGo/Albumy/internal/database/storage"
	"github.com/GoArmGo/Albumy/internal/handler"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/GoArmGo/Albumy/internal/rabbitmq"
	"github.com/GoArmGo/Albumy/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// ресурсы закрываются в обратном порядке при ошибке сборки и при остановке
	var closers []func() error
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// 2. PostgreSQL: общий пул для sqlx и GORM, миграции применяются при подключении
	dbClient, err := client.NewClient(ctx, cfg.DatabaseURL, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, dbClient.Close)

	gormDB, err := postgres.NewGormDB(dbClient.DB.DB)
	if err != nil {
		return fail(err)
	}

	// 3. Хранилища
	photoStorage := storage.NewPhotoStorage(dbClient.DB, slogger)
	tagStorage := storage.NewTagStorage(dbClient.DB, slogger)
	collectStorage := storage.NewCollectStorage(dbClient.DB, slogger)
	notificationStorage := storage.NewNotificationStorage(dbClient.DB, slogger)
	userStorage := postgres.NewGormUserStorage(gormDB, slogger)
	followStorage := postgres.NewGormFollowStorage(gormDB, slogger)

	// 4. Файловое хранилище
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
	if err != nil {
		return fail(err)
	}

	// 5. RabbitMQ: один клиент публикует и потребляет события уведомлений
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return fail(fmt.Errorf("ошибка подключения к RabbitMQ: %w", err))
	}
	closers = append(closers, func() error {
		rabbitMQClient.Close()
		return nil
	})

	// 6. Бизнес-логика
	photoUseCase := usecase.NewPhotoUseCase(photoStorage, tagStorage, collectStorage, userStorage, fileStorage, slogger)
	tagUseCase := usecase.NewTagUseCase(photoStorage, tagStorage, slogger)
	collectUseCase := usecase.NewCollectUseCase(photoStorage, collectStorage, rabbitMQClient, slogger)
	notificationUseCase := usecase.NewNotificationUseCase(notificationStorage, userStorage, slogger)
	followUseCase := usecase.NewFollowUseCase(userStorage, followStorage, rabbitMQClient, slogger)

	// 7. HTTP
	router := handler.NewRouter(handler.Handlers{
		Photos:        handler.NewPhotoHandler(photoUseCase, handler.PageSize{Default: cfg.PhotoPerPage, Max: cfg.MaxPerPage}, slogger),
		Tags:          handler.NewTagHandler(tagUseCase, slogger),
		Collects:      handler.NewCollectHandler(collectUseCase, handler.PageSize{Default: cfg.UserPerPage, Max: cfg.MaxPerPage}, slogger),
		Notifications: handler.NewNotificationHandler(notificationUseCase, handler.PageSize{Default: cfg.NotificationPerPage, Max: cfg.MaxPerPage}, slogger),
		Follows:       handler.NewFollowHandler(followUseCase, slogger),
		Images:        handler.NewImageHandler(fileStorage, slogger),
		Auth:          handler.NewAuthenticator(auth.NewVerifier(cfg.JWTSecret), userStorage, slogger),
		UploadLimiter: make(chan struct{}, cfg.UploadConcurrency),
	}, cfg.RequestTimeout, slogger)

	application := app.NewApp(cfg, slogger, router, notificationUseCase, rabbitMQClient, closers...)

	slogger.Info("all dependencies initialized")
	return application, nil
}
