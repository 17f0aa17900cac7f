package ports

import (
	"context"

	"github.com/GoArmGo/Albumy/internal/domain"
)

// PhotoStorage определяет методы для взаимодействия с хранилищем фотографий.
// Отсутствующие записи возвращаются как domain.ErrNotFound
type PhotoStorage interface {
	SavePhoto(ctx context.Context, photo *domain.Photo) error
	GetPhotoByID(ctx context.Context, id int64) (*domain.Photo, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
	IncrementFlag(ctx context.Context, id int64) (int, error)
	// DeletePhoto удаляет фото вместе со связями и осиротевшими тегами в одной транзакции
	DeletePhoto(ctx context.Context, id int64) error

	// NextPhoto фото того же автора с наименьшим id > photoID
	NextPhoto(ctx context.Context, authorID, photoID int64) (*domain.Photo, error)
	// PreviousPhoto фото того же автора с наибольшим id < photoID
	PreviousPhoto(ctx context.Context, authorID, photoID int64) (*domain.Photo, error)

	ListFeed(ctx context.Context, followerID int64, page, perPage int) ([]domain.Photo, int, error)
	ListByAuthor(ctx context.Context, authorID int64, page, perPage int) ([]domain.Photo, int, error)
	ListByTag(ctx context.Context, tagID int64, order domain.TagOrder, page, perPage int) ([]domain.Photo, int, error)
	ListRandom(ctx context.Context, limit int) ([]domain.Photo, error)
}

// TagStorage определяет методы работы с тегами и связями photo_tags
type TagStorage interface {
	GetTagByID(ctx context.Context, id int64) (*domain.Tag, error)
	ListTagsByPhoto(ctx context.Context, photoID int64) ([]domain.Tag, error)
	// AttachTags находит или создает теги по именам и привязывает их к фото,
	// возвращает полный набор тегов фото
	AttachTags(ctx context.Context, photoID int64, names []string) ([]domain.Tag, error)
	// DetachTag отвязывает тег и удаляет его, если фото у тега не осталось.
	// Возвращает true, если тег был удален
	DetachTag(ctx context.Context, photoID, tagID int64) (bool, error)
}

// CollectStorage определяет методы работы с коллекциями пользователей
type CollectStorage interface {
	// CreateCollect возвращает domain.ErrAlreadyCollected, если пара уже существует
	CreateCollect(ctx context.Context, collectorID, photoID int64) error
	// DeleteCollect возвращает domain.ErrNotCollected, если пары нет
	DeleteCollect(ctx context.Context, collectorID, photoID int64) error
	IsCollecting(ctx context.Context, collectorID, photoID int64) (bool, error)
	CountCollectors(ctx context.Context, photoID int64) (int, error)
	ListCollectors(ctx context.Context, photoID int64, page, perPage int) ([]domain.Collect, int, error)
}

// NotificationStorage определяет методы работы с уведомлениями
type NotificationStorage interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	GetNotificationByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListNotifications(ctx context.Context, receiverID int64, unreadOnly bool, page, perPage int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, receiverID int64) (int64, error)
	CountUnread(ctx context.Context, receiverID int64) (int, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// FollowStorage определяет методы работы с подписками
type FollowStorage interface {
	// Follow возвращает domain.ErrAlreadyFollowing для повторной подписки
	Follow(ctx context.Context, followerID, followedID int64) error
	// Unfollow возвращает domain.ErrNotFollowing, если подписки нет
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
}
