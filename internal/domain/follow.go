package domain

import "time"

// Follow подписка одного пользователя на другого, таблица follows
type Follow struct {
	FollowerID int64     `json:"follower_id" db:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64     `json:"followed_id" db:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
