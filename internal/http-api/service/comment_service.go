package service

import (
	"context"
	"errors"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateForBook(ctx context.Context, userID string, bookID int64, content string) (*models.Comment, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Comment, int64, error)
	GetBySummary(ctx context.Context, summaryID int64, page, pageSize int) ([]models.Comment, int64, error)
	Delete(ctx context.Context, commentID int64, userID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	bookRepo    *repository.BookRepo
	summaryRepo repository.SummaryRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	bookRepo *repository.BookRepo,
	summaryRepo repository.SummaryRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		bookRepo:    bookRepo,
		summaryRepo: summaryRepo,
	}
}

// CreateForBook posts a discussion comment on a book's page
func (s *commentService) CreateForBook(ctx context.Context, userID string, bookID int64, content string) (*models.Comment, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		BookID:  &bookID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with user data
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetByBook retrieves a book's comment thread with pagination
func (s *commentService) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBookNotFound
		}
		return nil, 0, err
	}
	return s.commentRepo.GetByBook(ctx, bookID, page, pageSize)
}

// GetBySummary retrieves the comments under a summary, teacher feedback included
func (s *commentService) GetBySummary(ctx context.Context, summaryID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.summaryRepo.GetByID(ctx, summaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSummaryNotFound
		}
		return nil, 0, err
	}
	return s.commentRepo.GetBySummary(ctx, summaryID, page, pageSize)
}

// Delete removes a comment if the caller owns it
func (s *commentService) Delete(ctx context.Context, commentID int64, userID string) error {
	return s.commentRepo.Delete(ctx, commentID, userID)
}
