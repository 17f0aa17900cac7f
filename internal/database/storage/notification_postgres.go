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

// NotificationStorage реализует ports.NotificationStorage поверх sqlx
type NotificationStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewNotificationStorage(db *sqlx.DB, logger *slog.Logger) *NotificationStorage {
	return &NotificationStorage{db: db, logger: logger}
}

// CreateNotification сохраняет уведомление, заполняет ID, IsRead и CreatedAt
func (s *NotificationStorage) CreateNotification(ctx context.Context, n *domain.Notification) error {
	err := s.db.QueryRowxContext(ctx, `
	INSERT INTO notifications (receiver_id, message) VALUES ($1, $2)
	RETURNING id, is_read, created_at
	`, n.ReceiverID, n.Message).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: получатель %d", domain.ErrNotFound, n.ReceiverID)
		}
		s.logger.Error("failed to create notification", "receiver_id", n.ReceiverID, "error", err)
		return fmt.Errorf("ошибка при создании уведомления: %w", err)
	}
	s.logger.Info("notification created", "id", n.ID, "receiver_id", n.ReceiverID)
	return nil
}

// GetNotificationByID получает уведомление по ID
func (s *NotificationStorage) GetNotificationByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.db.GetContext(ctx, &n, `SELECT * FROM notifications WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: уведомление %d", domain.ErrNotFound, id)
		}
		s.logger.Error("failed to get notification", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении уведомления: %w", err)
	}
	return &n, nil
}

// ListNotifications получает уведомления пользователя, новые первыми
func (s *NotificationStorage) ListNotifications(ctx context.Context, receiverID int64, unreadOnly bool, page, perPage int) ([]domain.Notification, int, error) {
	start := time.Now()

	items, total, err := selectPage[domain.Notification](ctx, s.db,
		`SELECT COUNT(*) FROM notifications WHERE receiver_id = $1 AND (NOT $2::boolean OR NOT is_read)`,
		`
		SELECT * FROM notifications
		WHERE receiver_id = $1 AND (NOT $2::boolean OR NOT is_read)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
		`,
		page, perPage, receiverID, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", "receiver_id", receiverID, "unread_only", unreadOnly, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении уведомлений: %w", err)
	}

	s.logger.Debug("notifications listed",
		"receiver_id", receiverID,
		"unread_only", unreadOnly,
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, total, nil
}

// MarkRead помечает уведомление прочитанным. Повторная пометка не ошибка
func (s *NotificationStorage) MarkRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to mark notification read", "id", id, "error", err)
		return fmt.Errorf("ошибка при обновлении уведомления: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: уведомление %d", domain.ErrNotFound, id)
	}
	return nil
}

// MarkAllRead помечает прочитанными все уведомления пользователя
func (s *NotificationStorage) MarkAllRead(ctx context.Context, receiverID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE receiver_id = $1 AND NOT is_read`, receiverID)
	if err != nil {
		s.logger.Error("failed to mark all notifications read", "receiver_id", receiverID, "error", err)
		return 0, fmt.Errorf("ошибка при обновлении уведомлений: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Info("notifications marked read", "receiver_id", receiverID, "count", n)
	return n, nil
}

// CountUnread количество непрочитанных уведомлений пользователя
func (s *NotificationStorage) CountUnread(ctx context.Context, receiverID int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE receiver_id = $1 AND NOT is_read`, receiverID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете непрочитанных уведомлений: %w", err)
	}
	return count, nil
}
