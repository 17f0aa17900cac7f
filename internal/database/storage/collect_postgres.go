package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/jmoiron/sqlx"
)

// CollectStorage реализует ports.CollectStorage поверх sqlx.
// Уникальность пары (collector_id, photo_id) обеспечивает первичный ключ таблицы
type CollectStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewCollectStorage(db *sqlx.DB, logger *slog.Logger) *CollectStorage {
	return &CollectStorage{db: db, logger: logger}
}

// CreateCollect добавляет фото в коллекцию пользователя
func (s *CollectStorage) CreateCollect(ctx context.Context, collectorID, photoID int64) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO collects (collector_id, photo_id) VALUES ($1, $2)
	ON CONFLICT (collector_id, photo_id) DO NOTHING
	`, collectorID, photoID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: фото %d или пользователь %d", domain.ErrNotFound, photoID, collectorID)
		}
		s.logger.Error("failed to create collect", "collector_id", collectorID, "photo_id", photoID, "error", err)
		return fmt.Errorf("ошибка при добавлении в коллекцию: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: пользователь %d, фото %d", domain.ErrAlreadyCollected, collectorID, photoID)
	}

	s.logger.Info("photo collected",
		"collector_id", collectorID,
		"photo_id", photoID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteCollect убирает фото из коллекции пользователя
func (s *CollectStorage) DeleteCollect(ctx context.Context, collectorID, photoID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collects WHERE collector_id = $1 AND photo_id = $2`, collectorID, photoID)
	if err != nil {
		s.logger.Error("failed to delete collect", "collector_id", collectorID, "photo_id", photoID, "error", err)
		return fmt.Errorf("ошибка при удалении из коллекции: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: пользователь %d, фото %d", domain.ErrNotCollected, collectorID, photoID)
	}
	s.logger.Info("photo uncollected", "collector_id", collectorID, "photo_id", photoID)
	return nil
}

// IsCollecting проверяет, есть ли фото в коллекции пользователя
func (s *CollectStorage) IsCollecting(ctx context.Context, collectorID, photoID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM collects WHERE collector_id = $1 AND photo_id = $2)`, collectorID, photoID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке коллекции: %w", err)
	}
	return exists, nil
}

// CountCollectors количество пользователей, добавивших фото в коллекцию
func (s *CollectStorage) CountCollectors(ctx context.Context, photoID int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM collects WHERE photo_id = $1`, photoID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете коллекционеров: %w", err)
	}
	return count, nil
}

// ListCollectors получает коллекции фото, самые ранние первыми
func (s *CollectStorage) ListCollectors(ctx context.Context, photoID int64, page, perPage int) ([]domain.Collect, int, error) {
	start := time.Now()

	collects, total, err := selectPage[domain.Collect](ctx, s.db,
		`SELECT COUNT(*) FROM collects WHERE photo_id = $1`,
		`
		SELECT c.collector_id, c.photo_id, c.created_at, u.username AS collector_username
		FROM collects c
		JOIN users u ON u.id = c.collector_id
		WHERE c.photo_id = $1
		ORDER BY c.created_at ASC, c.collector_id ASC
		LIMIT $2 OFFSET $3
		`,
		page, perPage, photoID)
	if err != nil {
		s.logger.Error("failed to list collectors", "photo_id", photoID, "page", page, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении коллекционеров: %w", err)
	}

	s.logger.Debug("collectors listed",
		"photo_id", photoID,
		"count", len(collects),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return collects, total, nil
}
