package usecase

import (
	"fmt"

	"github.com/GoArmGo/Albumy/internal/domain"
)

// requireUser проверяет, что запрос выполняет аутентифицированный пользователь
func requireUser(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// requirePermission дополнительно требует подтвержденный аккаунт и право perm
func requirePermission(user *domain.User, perm domain.Permission) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if !user.Confirmed {
		return fmt.Errorf("%w: аккаунт %d не подтвержден", domain.ErrForbidden, user.ID)
	}
	if !user.Can(perm) {
		return fmt.Errorf("%w: у пользователя %d нет права %s", domain.ErrForbidden, user.ID, perm)
	}
	return nil
}

// requireAuthor проверяет, что user является автором фото
func requireAuthor(user *domain.User, photo *domain.Photo) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if user.ID != photo.AuthorID {
		return fmt.Errorf("%w: пользователь %d не автор фото %d", domain.ErrForbidden, user.ID, photo.ID)
	}
	return nil
}
