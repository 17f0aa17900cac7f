package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Секрет для проверки JWT, которые выпускает сервис идентификации
	JWTSecret string `env:"JWT_SECRET,required"`

	// Сколько загрузок фото обрабатывается параллельно
	UploadConcurrency int `env:"UPLOAD_CONCURRENCY" envDefault:"5"`

	// Размеры страниц по умолчанию
	PhotoPerPage        int `env:"PHOTO_PER_PAGE" envDefault:"12"`
	UserPerPage         int `env:"USER_PER_PAGE" envDefault:"20"`
	NotificationPerPage int `env:"NOTIFICATION_PER_PAGE" envDefault:"20"`
	// Верхняя граница per_page, которую может запросить клиент
	MaxPerPage int `env:"MAX_PER_PAGE" envDefault:"100"`

	// Настройки для MinIO
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	// Базовый адрес, по которому клиенты получают загруженные файлы
	MinioPublicURL string `env:"MINIO_PUBLIC_URL" envDefault:"http://localhost:9000"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"notification_events"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.UploadConcurrency <= 0 {
		return nil, fmt.Errorf("UPLOAD_CONCURRENCY должен быть положительным, получено %d", cfg.UploadConcurrency)
	}
	if cfg.PhotoPerPage <= 0 || cfg.UserPerPage <= 0 || cfg.NotificationPerPage <= 0 {
		return nil, fmt.Errorf("размеры страниц должны быть положительными")
	}
	if cfg.MaxPerPage < max(cfg.PhotoPerPage, cfg.UserPerPage, cfg.NotificationPerPage) {
		return nil, fmt.Errorf("MAX_PER_PAGE (%d) меньше размера страницы по умолчанию", cfg.MaxPerPage)
	}

	return &cfg, nil
}
