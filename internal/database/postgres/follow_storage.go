package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFollowStorage реализует ports.FollowStorage с использованием GORM
type GormFollowStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormFollowStorage(db *gorm.DB, logger *slog.Logger) *GormFollowStorage {
	return &GormFollowStorage{db: db, logger: logger}
}

// Follow создает подписку. Повторная подписка отсекается первичным ключом
func (s *GormFollowStorage) Follow(ctx context.Context, followerID, followedID int64) error {
	follow := domain.Follow{FollowerID: followerID, FollowedID: followedID}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if result.Error != nil {
		s.logger.Error("failed to follow", "follower_id", followerID, "followed_id", followedID, "error", result.Error)
		return fmt.Errorf("ошибка при создании подписки с GORM: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d -> %d", domain.ErrAlreadyFollowing, followerID, followedID)
	}

	s.logger.Info("user followed", "follower_id", followerID, "followed_id", followedID)
	return nil
}

// Unfollow удаляет подписку
func (s *GormFollowStorage) Unfollow(ctx context.Context, followerID, followedID int64) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		s.logger.Error("failed to unfollow", "follower_id", followerID, "followed_id", followedID, "error", result.Error)
		return fmt.Errorf("ошибка при удалении подписки с GORM: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d -> %d", domain.ErrNotFollowing, followerID, followedID)
	}

	s.logger.Info("user unfollowed", "follower_id", followerID, "followed_id", followedID)
	return nil
}

// IsFollowing проверяет наличие подписки
func (s *GormFollowStorage) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("ошибка при проверке подписки с GORM: %w", result.Error)
	}
	return count > 0, nil
}
