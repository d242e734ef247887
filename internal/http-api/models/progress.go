package models

import "time"

// Reading statuses. A row is created the first time a user touches a book;
// NOT_STARTED only appears when a client creates a row without a status.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusReading    = "READING"
	StatusPaused     = "PAUSED"
	StatusCompleted  = "COMPLETED"
)

// ValidStatus reports whether s is one of the known reading statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusReading, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Progress represents one user's reading position in one book.
// At most one row exists per (user, book); writes go through an upsert.
type Progress struct {
	UserID             string     `gorm:"type:uuid;not null;primaryKey;index:idx_user_book" json:"user_id"`
	BookID             int64      `gorm:"not null;primaryKey;index:idx_user_book" json:"book_id"`
	Status             string     `gorm:"type:text;default:'NOT_STARTED'" json:"status"`
	CurrentPage        int        `gorm:"default:0" json:"current_page"`
	TotalPages         int        `gorm:"default:0" json:"total_pages"`
	ProgressPercentage float64    `gorm:"default:0" json:"progress_percentage"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

// TableName overrides the table name used by Progress to `progress`
func (Progress) TableName() string {
	return "progress"
}
