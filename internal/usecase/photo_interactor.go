package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/google/uuid"
)

const (
	// exploreLimit сколько случайных фото отдает Explore
	exploreLimit = 12

	MessageAlreadyLast  = "Это уже последнее фото."
	MessageAlreadyFirst = "Это уже первое фото."
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// photoUseCase implements PhotoUseCase
type photoUseCase struct {
	photoStorage   ports.PhotoStorage
	tagStorage     ports.TagStorage
	collectStorage ports.CollectStorage
	userStorage    ports.UserStorage
	fileStorage    FileStorage
	logger         *slog.Logger
}

// NewPhotoUseCase создает новый экземпляр PhotoUseCase
func NewPhotoUseCase(
	photoStorage ports.PhotoStorage,
	tagStorage ports.TagStorage,
	collectStorage ports.CollectStorage,
	userStorage ports.UserStorage,
	fileStorage FileStorage,
	logger *slog.Logger,
) PhotoUseCase {
	return &photoUseCase{
		photoStorage:   photoStorage,
		tagStorage:     tagStorage,
		collectStorage: collectStorage,
		userStorage:    userStorage,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// UploadPhoto загружает изображение в файловое хранилище под случайным именем
// и сохраняет фото в бд. Уменьшенные копии не строятся, filename_s и filename_m
// указывают на оригинал
func (uc *photoUseCase) UploadPhoto(ctx context.Context, user *domain.User, in UploadInput) (*domain.Photo, error) {
	if err := requirePermission(user, domain.PermissionUpload); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !allowedImageExtensions[ext] {
		return nil, fmt.Errorf("%w: неподдерживаемый тип файла %q", domain.ErrInvalidInput, in.Filename)
	}
	if utf8.RuneCountInString(in.Description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: описание длиннее %d символов", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("photos/%s%s", uuid.New(), ext)
	url, err := uc.fileStorage.UploadFile(ctx, key, in.Body, contentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки файла %s: %w", key, err)
	}

	photo := &domain.Photo{
		AuthorID:    user.ID,
		Filename:    key,
		FilenameS:   key,
		FilenameM:   key,
		Description: in.Description,
	}
	if err := uc.photoStorage.SavePhoto(ctx, photo); err != nil {
		if delErr := uc.fileStorage.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("failed to remove uploaded file after save error", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("usecase: ошибка сохранения фото: %w", err)
	}

	uc.logger.Info("photo uploaded", "photo_id", photo.ID, "author_id", user.ID, "url", url)
	return photo, nil
}

// GetPhotoDetails получает фото с тегами и числом коллекционеров
func (uc *photoUseCase) GetPhotoDetails(ctx context.Context, photoID int64, viewer *domain.User) (*domain.PhotoDetails, error) {
	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	tags, err := uc.tagStorage.ListTagsByPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения тегов фото %d: %w", photoID, err)
	}
	photo.Tags = tags

	count, err := uc.collectStorage.CountCollectors(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка подсчета коллекционеров фото %d: %w", photoID, err)
	}

	details := &domain.PhotoDetails{Photo: *photo, CollectorsCount: count}
	if viewer != nil {
		details.Collected, err = uc.collectStorage.IsCollecting(ctx, viewer.ID, photoID)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка проверки коллекции: %w", err)
		}
	}
	return details, nil
}

// NextPhoto возвращает следующее фото автора; если его нет, остается на текущем
func (uc *photoUseCase) NextPhoto(ctx context.Context, photoID int64) (*domain.NavigationResult, error) {
	return uc.navigate(ctx, photoID, uc.photoStorage.NextPhoto, MessageAlreadyLast)
}

// PreviousPhoto возвращает предыдущее фото автора; если его нет, остается на текущем
func (uc *photoUseCase) PreviousPhoto(ctx context.Context, photoID int64) (*domain.NavigationResult, error) {
	return uc.navigate(ctx, photoID, uc.photoStorage.PreviousPhoto, MessageAlreadyFirst)
}

type siblingFunc func(ctx context.Context, authorID, photoID int64) (*domain.Photo, error)

func (uc *photoUseCase) navigate(ctx context.Context, photoID int64, sibling siblingFunc, edgeMessage string) (*domain.NavigationResult, error) {
	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	target, err := sibling(ctx, photo.AuthorID, photo.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NavigationResult{Photo: photo, Moved: false, Message: edgeMessage}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка навигации от фото %d: %w", photoID, err)
	}
	return &domain.NavigationResult{Photo: target, Moved: true}, nil
}

// DeletePhoto удаляет фото. Следующим показывается предыдущее фото автора,
// иначе следующее, а если фото не осталось, то профиль автора
func (uc *photoUseCase) DeletePhoto(ctx context.Context, user *domain.User, photoID int64) (*domain.DeleteResult, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}

	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(user, photo); err != nil {
		return nil, err
	}

	if err := uc.photoStorage.DeletePhoto(ctx, photoID); err != nil {
		return nil, fmt.Errorf("usecase: ошибка удаления фото %d: %w", photoID, err)
	}
	uc.removeFiles(ctx, photo)

	result := &domain.DeleteResult{AuthorUsername: user.Username}

	target, err := uc.photoStorage.PreviousPhoto(ctx, photo.AuthorID, photo.ID)
	if errors.Is(err, domain.ErrNotFound) {
		target, err = uc.photoStorage.NextPhoto(ctx, photo.AuthorID, photo.ID)
	}
	switch {
	case err == nil:
		result.NextPhotoID = &target.ID
	case errors.Is(err, domain.ErrNotFound):
		// фото у автора не осталось, переходим в профиль
	default:
		return nil, fmt.Errorf("usecase: ошибка выбора фото после удаления %d: %w", photoID, err)
	}

	uc.logger.Info("photo deleted by author", "photo_id", photoID, "author_id", user.ID)
	return result, nil
}

// removeFiles удаляет файлы фото из хранилища. Ошибки только логируются:
// запись в бд уже удалена
func (uc *photoUseCase) removeFiles(ctx context.Context, photo *domain.Photo) {
	seen := make(map[string]bool, 3)
	for _, key := range []string{photo.Filename, photo.FilenameS, photo.FilenameM} {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if err := uc.fileStorage.DeleteFile(ctx, key); err != nil {
			uc.logger.Warn("failed to delete photo file", "photo_id", photo.ID, "key", key, "error", err)
		}
	}
}

// ReportPhoto увеличивает счетчик жалоб на фото
func (uc *photoUseCase) ReportPhoto(ctx context.Context, user *domain.User, photoID int64) (int, error) {
	if err := requireUser(user); err != nil {
		return 0, err
	}
	if !user.Confirmed {
		return 0, fmt.Errorf("%w: аккаунт %d не подтвержден", domain.ErrForbidden, user.ID)
	}

	flag, err := uc.photoStorage.IncrementFlag(ctx, photoID)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("photo reported", "photo_id", photoID, "reporter_id", user.ID, "flag", flag)
	return flag, nil
}

// EditDescription меняет описание фото
func (uc *photoUseCase) EditDescription(ctx context.Context, user *domain.User, photoID int64, description string) error {
	if err := requireUser(user); err != nil {
		return err
	}

	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return err
	}
	if err := requireAuthor(user, photo); err != nil {
		return err
	}

	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: описание длиннее %d символов", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return uc.photoStorage.UpdateDescription(ctx, photoID, description)
}

// GetFeed получает ленту подписок пользователя, новые фото первыми
func (uc *photoUseCase) GetFeed(ctx context.Context, user *domain.User, page, perPage int) (domain.Page[domain.Photo], error) {
	if err := requireUser(user); err != nil {
		return domain.Page[domain.Photo]{}, err
	}
	if err := domain.ValidatePage(page, perPage); err != nil {
		return domain.Page[domain.Photo]{}, err
	}

	photos, total, err := uc.photoStorage.ListFeed(ctx, user.ID, page, perPage)
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("usecase: ошибка получения ленты: %w", err)
	}
	return domain.NewPage(photos, page, perPage, total), nil
}

// Explore получает случайные фото
func (uc *photoUseCase) Explore(ctx context.Context) ([]domain.Photo, error) {
	photos, err := uc.photoStorage.ListRandom(ctx, exploreLimit)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения случайных фото: %w", err)
	}
	return photos, nil
}

// ListTagPhotos получает тег и страницу его фото
func (uc *photoUseCase) ListTagPhotos(ctx context.Context, tagID int64, order domain.TagOrder, page, perPage int) (*domain.Tag, domain.Page[domain.Photo], error) {
	if err := domain.ValidatePage(page, perPage); err != nil {
		return nil, domain.Page[domain.Photo]{}, err
	}

	tag, err := uc.tagStorage.GetTagByID(ctx, tagID)
	if err != nil {
		return nil, domain.Page[domain.Photo]{}, err
	}

	photos, total, err := uc.photoStorage.ListByTag(ctx, tagID, order, page, perPage)
	if err != nil {
		return nil, domain.Page[domain.Photo]{}, fmt.Errorf("usecase: ошибка получения фото тега %d: %w", tagID, err)
	}
	return tag, domain.NewPage(photos, page, perPage, total), nil
}

// ListAuthorPhotos получает фото пользователя по его имени
func (uc *photoUseCase) ListAuthorPhotos(ctx context.Context, username string, page, perPage int) (domain.Page[domain.Photo], error) {
	if err := domain.ValidatePage(page, perPage); err != nil {
		return domain.Page[domain.Photo]{}, err
	}

	author, err := uc.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Page[domain.Photo]{}, err
	}

	photos, total, err := uc.photoStorage.ListByAuthor(ctx, author.ID, page, perPage)
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("usecase: ошибка получения фото автора %s: %w", username, err)
	}
	return domain.NewPage(photos, page, perPage, total), nil
}
