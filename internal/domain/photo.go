package domain

import "time"

// Photo представляет модель фотографии в системе,
// соответствует таблице photos в бд.
// ID монотонно растет и служит ключом сортировки внутри фото одного автора
type Photo struct {
	ID          int64     `json:"id" db:"id"`
	AuthorID    int64     `json:"author_id" db:"author_id"`
	Filename    string    `json:"filename" db:"filename"`
	FilenameS   string    `json:"filename_s" db:"filename_s"`
	FilenameM   string    `json:"filename_m" db:"filename_m"`
	Description string    `json:"description" db:"description"`
	Flag        int       `json:"flag" db:"flag"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Tags        []Tag     `json:"tags,omitempty" db:"-"`
}

func (Photo) TableName() string {
	return "photos"
}

// Tag представляет модель тега,
// соответствует таблице tags в бд
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// MaxTagLength ограничение длины имени тега (varchar(64) в схеме)
const MaxTagLength = 64

// MaxDescriptionLength ограничение длины описания фото
const MaxDescriptionLength = 500

// PhotoTag представляет связующую модель для отношения Many-to-Many между Photo и Tag,
// соответствует таблице photo_tags в бд
type PhotoTag struct {
	PhotoID int64 `json:"photo_id" db:"photo_id"`
	TagID   int64 `json:"tag_id" db:"tag_id"`
}

func (PhotoTag) TableName() string {
	return "photo_tags"
}

// TagOrder порядок выдачи фото внутри тега
type TagOrder string

const (
	TagOrderByTime     TagOrder = "by_time"
	TagOrderByCollects TagOrder = "by_collects"
)

// ParseTagOrder возвращает by_time для пустого или неизвестного значения
func ParseTagOrder(s string) TagOrder {
	if TagOrder(s) == TagOrderByCollects {
		return TagOrderByCollects
	}
	return TagOrderByTime
}

// PhotoDetails фото вместе с тегами и данными о коллекциях для конкретного зрителя
type PhotoDetails struct {
	Photo           Photo `json:"photo"`
	CollectorsCount int   `json:"collectors_count"`
	Collected       bool  `json:"collected"`
}

// NavigationResult результат перехода к соседнему фото автора.
// Если соседа нет, Moved=false и Photo указывает на исходное фото
type NavigationResult struct {
	Photo   *Photo `json:"photo"`
	Moved   bool   `json:"moved"`
	Message string `json:"message,omitempty"`
}

// DeleteResult куда перенаправить пользователя после удаления фото:
// на соседнее фото автора либо в профиль автора, если фото не осталось
type DeleteResult struct {
	NextPhotoID    *int64 `json:"next_photo_id,omitempty"`
	AuthorUsername string `json:"author_username"`
}
