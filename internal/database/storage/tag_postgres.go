package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/jmoiron/sqlx"
)

// TagStorage реализует ports.TagStorage поверх sqlx
type TagStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewTagStorage(db *sqlx.DB, logger *slog.Logger) *TagStorage {
	return &TagStorage{db: db, logger: logger}
}

// GetTagByID получает тег по ID
func (s *TagStorage) GetTagByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := s.db.GetContext(ctx, &tag, `SELECT id, name FROM tags WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: тег %d", domain.ErrNotFound, id)
		}
		s.logger.Error("failed to get tag by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении тега по ID: %w", err)
	}
	return &tag, nil
}

const tagsByPhotoQuery = `
SELECT t.id, t.name FROM tags t
JOIN photo_tags pt ON pt.tag_id = t.id
WHERE pt.photo_id = $1
ORDER BY t.id
`

// ListTagsByPhoto получает теги фото в порядке создания
func (s *TagStorage) ListTagsByPhoto(ctx context.Context, photoID int64) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	if err := s.db.SelectContext(ctx, &tags, tagsByPhotoQuery, photoID); err != nil {
		s.logger.Error("failed to list photo tags", "photo_id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов фото: %w", err)
	}
	return tags, nil
}

// AttachTags находит или создает теги и привязывает их к фото в одной транзакции.
// Upsert по уникальному имени блокирует строку тега до конца транзакции, поэтому
// параллельный DetachTag не удалит тег, который сейчас привязывается
func (s *TagStorage) AttachTags(ctx context.Context, photoID int64, names []string) ([]domain.Tag, error) {
	start := time.Now()
	tags := []domain.Tag{}

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var locked int64
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM photos WHERE id = $1 FOR SHARE`, photoID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: фото %d", domain.ErrNotFound, photoID)
			}
			return fmt.Errorf("ошибка блокировки фото: %w", err)
		}

		for _, name := range names {
			var tagID int64
			err := tx.GetContext(ctx, &tagID, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
			`, name)
			if err != nil {
				return fmt.Errorf("ошибка создания тега %q: %w", name, err)
			}

			if _, err := tx.ExecContext(ctx, `
			INSERT INTO photo_tags (photo_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (photo_id, tag_id) DO NOTHING
			`, photoID, tagID); err != nil {
				return fmt.Errorf("ошибка привязки тега %q: %w", name, err)
			}
		}

		return tx.SelectContext(ctx, &tags, tagsByPhotoQuery, photoID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to attach tags", "photo_id", photoID, "names", names, "error", err)
		}
		return nil, err
	}

	s.logger.Info("tags attached",
		"photo_id", photoID,
		"requested", len(names),
		"total", len(tags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tags, nil
}

// DetachTag отвязывает тег от фото. Если у тега не осталось фото, тег удаляется
func (s *TagStorage) DetachTag(ctx context.Context, photoID, tagID int64) (bool, error) {
	start := time.Now()
	var deleted bool

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var locked int64
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM tags WHERE id = $1 FOR UPDATE`, tagID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: тег %d", domain.ErrNotFound, tagID)
			}
			return fmt.Errorf("ошибка блокировки тега: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM photo_tags WHERE photo_id = $1 AND tag_id = $2`, photoID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка отвязки тега: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: тег %d, фото %d", domain.ErrTagNotAttached, tagID, photoID)
		}

		res, err = tx.ExecContext(ctx, `
		DELETE FROM tags
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM photo_tags WHERE tag_id = $1)
		`, tagID)
		if err != nil {
			return fmt.Errorf("ошибка удаления осиротевшего тега: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrTagNotAttached) {
			s.logger.Error("failed to detach tag", "photo_id", photoID, "tag_id", tagID, "error", err)
		}
		return false, err
	}

	s.logger.Info("tag detached",
		"photo_id", photoID,
		"tag_id", tagID,
		"tag_deleted", deleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return deleted, nil
}
