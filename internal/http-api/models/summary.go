package models

import "time"

// Summary is a user-authored reflection on a book. One per (user, book);
// the pair is checked at the service layer before create. Rating is set
// by a teacher or admin and stays within 1..5.
type Summary struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string     `json:"user_id" gorm:"type:uuid;not null;index:idx_summary_user_book"`
	BookID    int64      `json:"book_id" gorm:"not null;index:idx_summary_user_book"`
	Title     *string    `json:"title,omitempty"`
	Content   string     `json:"content" gorm:"not null;type:text"`
	Rating    *int       `json:"rating,omitempty" gorm:"check:rating >= 1 AND rating <= 5"`
	RatedAt   *time.Time `json:"rated_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Summary) TableName() string {
	return "summaries"
}
