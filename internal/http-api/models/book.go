package models

import "time"

// Book difficulty tiers shown in the catalog filters.
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
)

type Book struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"not null"`
	Author      string     `json:"author" gorm:"not null"`
	Category    string     `json:"category" gorm:"not null;index"`
	Difficulty  string     `json:"difficulty" gorm:"default:'BEGINNER'"`
	Pages       int        `json:"pages" gorm:"default:0"`
	Language    string     `json:"language" gorm:"default:'en'"`
	ISBN        *string    `json:"isbn,omitempty" gorm:"uniqueIndex;size:20"`
	Description *string    `json:"description,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
}

func (Book) TableName() string {
	return "books"
}
