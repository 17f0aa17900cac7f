package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
// порт для хранения бинарных данных (самих изображений)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	// `key` - это уникальное имя файла в хранилище.
	// `reader` - это источник данных файла (тело multipart-запроса).
	// `contentType` - MIME-тип файла (например, "image/jpeg").
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error
}

// UploadInput данные загружаемого изображения
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Description string
}

// PhotoUseCase определяет интерфейс для бизнес-логики работы с фото
type PhotoUseCase interface {
	// UploadPhoto сохраняет изображение в файловом хранилище и создает фото от имени user
	UploadPhoto(ctx context.Context, user *domain.User, in UploadInput) (*domain.Photo, error)

	// GetPhotoDetails получает фото с тегами; viewer может быть nil
	GetPhotoDetails(ctx context.Context, photoID int64, viewer *domain.User) (*domain.PhotoDetails, error)

	// NextPhoto переходит к следующему фото того же автора
	NextPhoto(ctx context.Context, photoID int64) (*domain.NavigationResult, error)

	// PreviousPhoto переходит к предыдущему фото того же автора
	PreviousPhoto(ctx context.Context, photoID int64) (*domain.NavigationResult, error)

	// DeletePhoto удаляет фото автора и сообщает, куда перейти дальше
	DeletePhoto(ctx context.Context, user *domain.User, photoID int64) (*domain.DeleteResult, error)

	// ReportPhoto увеличивает счетчик жалоб
	ReportPhoto(ctx context.Context, user *domain.User, photoID int64) (int, error)

	// EditDescription меняет описание фото автора
	EditDescription(ctx context.Context, user *domain.User, photoID int64, description string) error

	// GetFeed получает фото авторов, на которых подписан пользователь
	GetFeed(ctx context.Context, user *domain.User, page, perPage int) (domain.Page[domain.Photo], error)

	// Explore получает случайную подборку фото
	Explore(ctx context.Context) ([]domain.Photo, error)

	// ListTagPhotos получает фото тега в заданном порядке
	ListTagPhotos(ctx context.Context, tagID int64, order domain.TagOrder, page, perPage int) (*domain.Tag, domain.Page[domain.Photo], error)

	// ListAuthorPhotos получает фото пользователя для его профиля
	ListAuthorPhotos(ctx context.Context, username string, page, perPage int) (domain.Page[domain.Photo], error)
}

// TagUseCase бизнес-логика тегов фото
type TagUseCase interface {
	// AddTags разбивает rawText по пробелам и привязывает теги к фото
	AddTags(ctx context.Context, user *domain.User, photoID int64, rawText string) ([]domain.Tag, error)

	// RemoveTag отвязывает тег; возвращает true, если тег остался без фото и был удален
	RemoveTag(ctx context.Context, user *domain.User, photoID, tagID int64) (bool, error)
}

// CollectUseCase бизнес-логика коллекций
type CollectUseCase interface {
	Collect(ctx context.Context, user *domain.User, photoID int64) error
	Uncollect(ctx context.Context, user *domain.User, photoID int64) error
	ListCollectors(ctx context.Context, photoID int64, page, perPage int) (domain.Page[domain.Collect], error)
}

// NotificationUseCase бизнес-логика уведомлений
type NotificationUseCase interface {
	ListNotifications(ctx context.Context, user *domain.User, filter domain.NotificationFilter, page, perPage int) (*domain.NotificationPage, error)
	MarkRead(ctx context.Context, user *domain.User, notificationID int64) error
	MarkAllRead(ctx context.Context, user *domain.User) (int64, error)

	// HandleEvent создает уведомление по событию из очереди
	HandleEvent(ctx context.Context, event payloads.NotificationEvent) error
}

// FollowUseCase бизнес-логика подписок
type FollowUseCase interface {
	Follow(ctx context.Context, user *domain.User, targetID int64) error
	Unfollow(ctx context.Context, user *domain.User, targetID int64) error
}
