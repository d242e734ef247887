package dto

import (
	"strings"
	"time"

	"readhub/internal/http-api/models"
)

// CreateCommentRequest: payload for commenting on a book
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentResponse DTO for responses. IsTeacherFeedback marks comments
// created through the rating flow, recognized by their content prefix.
type CommentResponse struct {
	ID                int64     `json:"id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username,omitempty"`
	Content           string    `json:"content"`
	IsTeacherFeedback bool      `json:"is_teacher_feedback"`
	CreatedAt         time.Time `json:"created_at"`
}

// PaginatedCommentResponse for returning comment threads
type PaginatedCommentResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

func FromModelToCommentResponse(c models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:                c.ID,
		UserID:            c.UserID,
		Content:           c.Content,
		IsTeacherFeedback: strings.HasPrefix(c.Content, models.TeacherFeedbackPrefix),
		CreatedAt:         c.CreatedAt,
	}
	if c.User != nil {
		resp.Username = c.User.Username
	}
	return resp
}
