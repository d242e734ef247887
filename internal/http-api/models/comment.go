package models

import "time"

// TeacherFeedbackPrefix marks comments created through the summary
// rating flow. The prefix is part of the visible text.
const TeacherFeedbackPrefix = "Teacher Feedback: "

// Comment is free text attached to either a book or a summary
// (exactly one of BookID / SummaryID is set).
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID    *int64    `json:"book_id,omitempty" gorm:"index"`
	SummaryID *int64    `json:"summary_id,omitempty" gorm:"index"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book    *Book    `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
	Summary *Summary `json:"summary,omitempty" gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
