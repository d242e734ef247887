package dto

import (
	"time"

	"readhub/internal/http-api/models"
)

// UpdateProgressRequest: payload for upserting reading progress on a book.
// Status may be omitted: an existing row keeps its status, a new row starts
// as NOT_STARTED. TotalPages overrides the catalog page count when the
// user's edition differs.
type UpdateProgressRequest struct {
	BookID      int64  `json:"book_id" binding:"required"`
	Status      string `json:"status,omitempty" binding:"omitempty,oneof=NOT_STARTED READING PAUSED COMPLETED"`
	CurrentPage int    `json:"current_page,omitempty" binding:"omitempty,gte=0"`
	TotalPages  *int   `json:"total_pages,omitempty" binding:"omitempty,gt=0"`
}

// ProgressResponse: one (user, book) progress row
type ProgressResponse struct {
	UserID             string        `json:"user_id"`
	BookID             int64         `json:"book_id"`
	Status             string        `json:"status"`
	CurrentPage        int           `json:"current_page"`
	TotalPages         int           `json:"total_pages"`
	ProgressPercentage float64       `json:"progress_percentage"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Book               *BookResponse `json:"book,omitempty"`
}

// ProgressUpdateResponse: written row plus what the update earned
type ProgressUpdateResponse struct {
	Progress      ProgressResponse `json:"progress"`
	PointsAwarded int              `json:"points_awarded"`
	TotalPoints   int              `json:"total_points"`
	Level         int              `json:"level"`
}

func FromModelToProgressResponse(p models.Progress) ProgressResponse {
	resp := ProgressResponse{
		UserID:             p.UserID,
		BookID:             p.BookID,
		Status:             p.Status,
		CurrentPage:        p.CurrentPage,
		TotalPages:         p.TotalPages,
		ProgressPercentage: p.ProgressPercentage,
		StartedAt:          p.StartedAt,
		CompletedAt:        p.CompletedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Book != nil {
		book := FromModelToBookResponse(*p.Book)
		resp.Book = &book
	}
	return resp
}
