package dto

import (
	"time"

	"readhub/internal/http-api/models"
)

// CreateSummaryRequest: payload for a student submitting a book summary
type CreateSummaryRequest struct {
	BookID  int64   `json:"book_id" binding:"required"`
	Title   *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Content string  `json:"content" binding:"required,min=10"`
}

// RateSummaryRequest: payload for a teacher scoring a summary, with
// optional written feedback
type RateSummaryRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback,omitempty"`
}

// SummaryResponse DTO for responses
type SummaryResponse struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Username  string     `json:"username,omitempty"`
	BookID    int64      `json:"book_id"`
	BookTitle string     `json:"book_title,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Content   string     `json:"content"`
	Rating    *int       `json:"rating,omitempty"`
	RatedAt   *time.Time `json:"rated_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RateSummaryResponse: the rated summary plus the author's bonus
type RateSummaryResponse struct {
	Summary       SummaryResponse `json:"summary"`
	PointsAwarded int             `json:"points_awarded"`
}

// PaginatedSummaryResponse for returning a book's summaries
type PaginatedSummaryResponse struct {
	Summaries  []SummaryResponse `json:"summaries"`
	Pagination Pagination        `json:"pagination"`
}

func FromModelToSummaryResponse(s models.Summary) SummaryResponse {
	resp := SummaryResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		BookID:    s.BookID,
		Title:     s.Title,
		Content:   s.Content,
		Rating:    s.Rating,
		RatedAt:   s.RatedAt,
		CreatedAt: s.CreatedAt,
	}
	if s.User != nil {
		resp.Username = s.User.Username
	}
	if s.Book != nil {
		resp.BookTitle = s.Book.Title
	}
	return resp
}
