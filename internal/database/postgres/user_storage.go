package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Albumy/internal/domain"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// GetUserByID получает пользователя по ID
func (s *GormUserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: пользователь %d", domain.ErrNotFound, id)
		}
		s.logger.Error("failed to get user by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID с помощью GORM: %w", result.Error)
	}
	return &user, nil
}

// GetUserByUsername получает пользователя по имени
func (s *GormUserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: пользователь %q", domain.ErrNotFound, username)
		}
		s.logger.Error("failed to get user by username", "username", username, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении пользователя по имени с помощью GORM: %w", result.Error)
	}
	return &user, nil
}

// CreateUser сохраняет пользователя. Используется при начальном наполнении и в тестах,
// в рабочем режиме пользователей заводит сервис идентификации
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if result := s.db.WithContext(ctx).Create(user); result.Error != nil {
		return fmt.Errorf("ошибка при создании пользователя с GORM: %w", result.Error)
	}
	s.logger.Info("user created", "id", user.ID, "username", user.Username)
	return nil
}
