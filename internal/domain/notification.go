package domain

import "time"

// Notification уведомление пользователя-получателя.
// Единственный переход состояния: непрочитано -> прочитано
type Notification struct {
	ID         int64     `json:"id" db:"id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	Message    string    `json:"message" db:"message"`
	IsRead     bool      `json:"is_read" db:"is_read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter фильтр списка уведомлений
type NotificationFilter string

const (
	NotificationFilterAll    NotificationFilter = "all"
	NotificationFilterUnread NotificationFilter = "unread"
)

// NotificationPage страница уведомлений и общее число непрочитанных
type NotificationPage struct {
	Page[Notification]
	UnreadCount int `json:"unread_count"`
}
