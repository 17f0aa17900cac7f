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
	"github.com/lib/pq"
)

// PhotoStorage реализует ports.PhotoStorage поверх sqlx
type PhotoStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPhotoStorage(db *sqlx.DB, logger *slog.Logger) *PhotoStorage {
	return &PhotoStorage{db: db, logger: logger}
}

// SavePhoto сохраняет метаданные фотографии, заполняет ID и CreatedAt
func (s *PhotoStorage) SavePhoto(ctx context.Context, photo *domain.Photo) error {
	start := time.Now()

	query := `
	INSERT INTO photos (author_id, filename, filename_s, filename_m, description)
	VALUES (:author_id, :filename, :filename_s, :filename_m, :description)
	RETURNING id, flag, created_at
	`

	rows, err := s.db.NamedQueryContext(ctx, query, photo)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: автор %d", domain.ErrNotFound, photo.AuthorID)
		}
		s.logger.Error("failed to save photo", "author_id", photo.AuthorID, "error", err)
		return fmt.Errorf("ошибка при сохранении фото: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&photo.ID, &photo.Flag, &photo.CreatedAt); err != nil {
			return fmt.Errorf("ошибка чтения id сохраненного фото: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении фото: %w", err)
	}

	s.logger.Info("photo saved successfully",
		"id", photo.ID,
		"author_id", photo.AuthorID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPhotoByID получает фото по ID
func (s *PhotoStorage) GetPhotoByID(ctx context.Context, id int64) (*domain.Photo, error) {
	var photo domain.Photo
	err := s.db.GetContext(ctx, &photo, `SELECT * FROM photos WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
		}
		s.logger.Error("failed to get photo by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении фото по ID: %w", err)
	}
	return &photo, nil
}

// UpdateDescription меняет описание фото
func (s *PhotoStorage) UpdateDescription(ctx context.Context, id int64, description string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE photos SET description = $2 WHERE id = $1`, id, description)
	if err != nil {
		s.logger.Error("failed to update description", "id", id, "error", err)
		return fmt.Errorf("ошибка при обновлении описания: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
	}
	s.logger.Info("photo description updated", "id", id)
	return nil
}

// IncrementFlag атомарно увеличивает счетчик жалоб и возвращает новое значение
func (s *PhotoStorage) IncrementFlag(ctx context.Context, id int64) (int, error) {
	var flag int
	err := s.db.GetContext(ctx, &flag, `UPDATE photos SET flag = flag + 1 WHERE id = $1 RETURNING flag`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
		}
		s.logger.Error("failed to increment flag", "id", id, "error", err)
		return 0, fmt.Errorf("ошибка при обновлении счетчика жалоб: %w", err)
	}
	s.logger.Info("photo reported", "id", id, "flag", flag)
	return flag, nil
}

// DeletePhoto удаляет фото. Связи photo_tags и collects удаляются каскадно,
// теги, у которых не осталось фото, удаляются в той же транзакции
func (s *PhotoStorage) DeletePhoto(ctx context.Context, id int64) error {
	start := time.Now()
	var orphans int64

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var tagIDs []int64
		if err := tx.SelectContext(ctx, &tagIDs,
			`SELECT id FROM tags WHERE id IN (SELECT tag_id FROM photo_tags WHERE photo_id = $1) ORDER BY id FOR UPDATE`, id); err != nil {
			return fmt.Errorf("ошибка блокировки тегов фото: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("ошибка удаления фото: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
		}

		if len(tagIDs) == 0 {
			return nil
		}

		res, err = tx.ExecContext(ctx, `
		DELETE FROM tags t
		WHERE t.id = ANY($1)
		  AND NOT EXISTS (SELECT 1 FROM photo_tags pt WHERE pt.tag_id = t.id)
		`, pq.Array(tagIDs))
		if err != nil {
			return fmt.Errorf("ошибка удаления осиротевших тегов: %w", err)
		}
		orphans, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to delete photo", "id", id, "error", err)
		}
		return err
	}

	s.logger.Info("photo deleted",
		"id", id,
		"orphan_tags_deleted", orphans,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// NextPhoto получает следующее фото автора по возрастанию ID
func (s *PhotoStorage) NextPhoto(ctx context.Context, authorID, photoID int64) (*domain.Photo, error) {
	return s.sibling(ctx, `
	SELECT * FROM photos
	WHERE author_id = $1 AND id > $2
	ORDER BY id ASC
	LIMIT 1
	`, authorID, photoID)
}

// PreviousPhoto получает предыдущее фото автора по убыванию ID
func (s *PhotoStorage) PreviousPhoto(ctx context.Context, authorID, photoID int64) (*domain.Photo, error) {
	return s.sibling(ctx, `
	SELECT * FROM photos
	WHERE author_id = $1 AND id < $2
	ORDER BY id DESC
	LIMIT 1
	`, authorID, photoID)
}

func (s *PhotoStorage) sibling(ctx context.Context, query string, authorID, photoID int64) (*domain.Photo, error) {
	var photo domain.Photo
	if err := s.db.GetContext(ctx, &photo, query, authorID, photoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: у автора %d нет соседнего фото для %d", domain.ErrNotFound, authorID, photoID)
		}
		s.logger.Error("failed to get sibling photo", "author_id", authorID, "photo_id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при поиске соседнего фото: %w", err)
	}
	return &photo, nil
}

// ListFeed получает фото авторов, на которых подписан пользователь, новые первыми
func (s *PhotoStorage) ListFeed(ctx context.Context, followerID int64, page, perPage int) ([]domain.Photo, int, error) {
	start := time.Now()

	countQuery := `
	SELECT COUNT(*) FROM photos p
	JOIN follows f ON f.followed_id = p.author_id
	WHERE f.follower_id = $1
	`
	listQuery := `
	SELECT p.* FROM photos p
	JOIN follows f ON f.followed_id = p.author_id
	WHERE f.follower_id = $1
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $2 OFFSET $3
	`

	photos, total, err := selectPage[domain.Photo](ctx, s.db, countQuery, listQuery, page, perPage, followerID)
	if err != nil {
		s.logger.Error("failed to list feed", "follower_id", followerID, "page", page, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	s.logger.Debug("feed listed",
		"follower_id", followerID,
		"page", page,
		"per_page", perPage,
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, total, nil
}

// ListByAuthor получает фото автора, новые первыми
func (s *PhotoStorage) ListByAuthor(ctx context.Context, authorID int64, page, perPage int) ([]domain.Photo, int, error) {
	photos, total, err := selectPage[domain.Photo](ctx, s.db,
		`SELECT COUNT(*) FROM photos WHERE author_id = $1`,
		`SELECT * FROM photos WHERE author_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		page, perPage, authorID)
	if err != nil {
		s.logger.Error("failed to list author photos", "author_id", authorID, "page", page, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении фото автора: %w", err)
	}
	return photos, total, nil
}

// ListByTag получает фото с тегом. Сортировка применяется ко всей выборке, а не к странице
func (s *PhotoStorage) ListByTag(ctx context.Context, tagID int64, order domain.TagOrder, page, perPage int) ([]domain.Photo, int, error) {
	countQuery := `SELECT COUNT(*) FROM photo_tags WHERE tag_id = $1`

	listQuery := `
	SELECT p.* FROM photos p
	JOIN photo_tags pt ON pt.photo_id = p.id
	WHERE pt.tag_id = $1
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $2 OFFSET $3
	`
	if order == domain.TagOrderByCollects {
		listQuery = `
		SELECT p.* FROM photos p
		JOIN photo_tags pt ON pt.photo_id = p.id
		LEFT JOIN collects c ON c.photo_id = p.id
		WHERE pt.tag_id = $1
		GROUP BY p.id
		ORDER BY COUNT(c.collector_id) DESC, p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
		`
	}

	photos, total, err := selectPage[domain.Photo](ctx, s.db, countQuery, listQuery, page, perPage, tagID)
	if err != nil {
		s.logger.Error("failed to list tag photos", "tag_id", tagID, "order", order, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении фото тега: %w", err)
	}
	return photos, total, nil
}

// ListRandom получает limit случайных фото
func (s *PhotoStorage) ListRandom(ctx context.Context, limit int) ([]domain.Photo, error) {
	photos := []domain.Photo{}
	if err := s.db.SelectContext(ctx, &photos, `SELECT * FROM photos ORDER BY RANDOM() LIMIT $1`, limit); err != nil {
		s.logger.Error("failed to list random photos", "limit", limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении случайных фото: %w", err)
	}
	return photos, nil
}
