// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
// Пользователей создает внешний сервис идентификации, здесь они только читаются
type User struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey"`
	Username     string    `json:"username" db:"username" gorm:"uniqueIndex;size:20;not null"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Confirmed    bool      `json:"confirmed" db:"confirmed"`
	Active       bool      `json:"active" db:"active" gorm:"default:true"`
	Role         Role      `json:"role" db:"role" gorm:"default:'User'"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Can проверяет, есть ли у пользователя право perm.
// Заблокированный (Active=false) пользователь не может ничего
func (u *User) Can(perm Permission) bool {
	if u == nil || !u.Active {
		return false
	}
	return u.Role.Has(perm)
}
