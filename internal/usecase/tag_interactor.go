package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
)

type tagUseCase struct {
	photoStorage ports.PhotoStorage
	tagStorage   ports.TagStorage
	logger       *slog.Logger
}

// NewTagUseCase создает новый экземпляр TagUseCase
func NewTagUseCase(photoStorage ports.PhotoStorage, tagStorage ports.TagStorage, logger *slog.Logger) TagUseCase {
	return &tagUseCase{
		photoStorage: photoStorage,
		tagStorage:   tagStorage,
		logger:       logger,
	}
}

// AddTags привязывает теги из rawText к фото автора
func (uc *tagUseCase) AddTags(ctx context.Context, user *domain.User, photoID int64, rawText string) ([]domain.Tag, error) {
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

	names, err := parseTagNames(rawText)
	if err != nil {
		return nil, err
	}

	tags, err := uc.tagStorage.AttachTags(ctx, photoID, names)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка привязки тегов к фото %d: %w", photoID, err)
	}

	uc.logger.Info("tags attached", "photo_id", photoID, "names", names)
	return tags, nil
}

// RemoveTag отвязывает тег от фото автора. Тег без фото удаляется
func (uc *tagUseCase) RemoveTag(ctx context.Context, user *domain.User, photoID, tagID int64) (bool, error) {
	if err := requireUser(user); err != nil {
		return false, err
	}

	photo, err := uc.photoStorage.GetPhotoByID(ctx, photoID)
	if err != nil {
		return false, err
	}
	if _, err := uc.tagStorage.GetTagByID(ctx, tagID); err != nil {
		return false, err
	}
	if err := requireAuthor(user, photo); err != nil {
		return false, err
	}

	removed, err := uc.tagStorage.DetachTag(ctx, photoID, tagID)
	if err != nil {
		return false, err
	}

	uc.logger.Info("tag detached", "photo_id", photoID, "tag_id", tagID, "tag_removed", removed)
	return removed, nil
}

// parseTagNames делит текст по пробельным символам и убирает повторы,
// сохраняя порядок первого появления
func parseTagNames(rawText string) ([]string, error) {
	fields := strings.Fields(rawText)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: не указано ни одного тега", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(fields))
	names := make([]string, 0, len(fields))
	for _, name := range fields {
		if utf8.RuneCountInString(name) > domain.MaxTagLength {
			return nil, fmt.Errorf("%w: тег %q длиннее %d символов", domain.ErrInvalidInput, name, domain.MaxTagLength)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}
