package domain

import "time"

// Collect пользователь добавил фото в коллекцию.
// Соответствует таблице collects, пара (collector_id, photo_id) уникальна
type Collect struct {
	CollectorID       int64     `json:"collector_id" db:"collector_id"`
	PhotoID           int64     `json:"photo_id" db:"photo_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	CollectorUsername string    `json:"collector_username,omitempty" db:"collector_username"`
}

func (Collect) TableName() string {
	return "collects"
}
