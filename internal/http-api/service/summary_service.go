package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrSummaryNotFound = errors.New("summary not found")
	ErrSummaryExists   = errors.New("you already wrote a summary for this book")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// RatingResult reports the rated summary and the bonus granted to its
// author. PointsAwarded is zero when a summary is re-rated.
type RatingResult struct {
	Summary       *models.Summary
	PointsAwarded int
}

type SummaryService interface {
	Create(ctx context.Context, userID string, bookID int64, title *string, content string) (*models.Summary, error)
	GetByID(ctx context.Context, id int64) (*models.Summary, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Summary, int64, error)
	Rate(ctx context.Context, raterID string, summaryID int64, rating int, feedback string) (*RatingResult, error)
}

type summaryService struct {
	db       *gorm.DB
	repo     repository.SummaryRepository
	bookRepo *repository.BookRepo
}

func NewSummaryService(db *gorm.DB, repo repository.SummaryRepository, bookRepo *repository.BookRepo) SummaryService {
	return &summaryService{
		db:       db,
		repo:     repo,
		bookRepo: bookRepo,
	}
}

// Create stores a student's summary for a book. One summary per user per
// book; a second attempt conflicts.
func (s *summaryService) Create(ctx context.Context, userID string, bookID int64, title *string, content string) (*models.Summary, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	exists, err := s.repo.ExistsByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSummaryExists
	}

	summary := &models.Summary{
		UserID:  userID,
		BookID:  bookID,
		Title:   title,
		Content: content,
	}
	if err := s.repo.Create(ctx, summary); err != nil {
		return nil, err
	}

	// Reload with author and book for the response
	return s.repo.GetByID(ctx, summary.ID)
}

func (s *summaryService) GetByID(ctx context.Context, id int64) (*models.Summary, error) {
	summary, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return summary, nil
}

func (s *summaryService) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Summary, int64, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBookNotFound
		}
		return nil, 0, err
	}
	return s.repo.GetByBook(ctx, bookID, page, pageSize)
}

// Rate stores a teacher's score for a summary and pays the author a bonus
// of rating x 10 points. The bonus is paid once, on the first rating; a
// re-rate overwrites the score without paying again. Score, bonus and the
// optional feedback comment are written in one transaction. raterID is the
// teacher doing the rating and becomes the feedback comment's author.
func (s *summaryService) Rate(ctx context.Context, raterID string, summaryID int64, rating int, feedback string) (*RatingResult, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	result := &RatingResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		summaryRepo := repository.NewSummaryRepository(tx)
		userRepo := repository.NewUserRepository(tx)
		commentRepo := repository.NewCommentRepository(tx)

		summary, err := summaryRepo.GetByID(ctx, summaryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSummaryNotFound
			}
			return err
		}

		firstRating := summary.Rating == nil

		now := time.Now()
		if err := summaryRepo.SetRating(ctx, summaryID, rating, now); err != nil {
			return err
		}
		summary.Rating = &rating
		summary.RatedAt = &now

		if firstRating {
			bonus := rating * PointsPerRatingStar
			total, err := userRepo.AddPoints(ctx, summary.UserID, bonus)
			if err != nil {
				return err
			}
			if err := userRepo.SetLevel(ctx, summary.UserID, LevelForPoints(total)); err != nil {
				return err
			}
			result.PointsAwarded = bonus
		}

		if strings.TrimSpace(feedback) != "" {
			comment := &models.Comment{
				UserID:    raterID,
				SummaryID: &summary.ID,
				Content:   models.TeacherFeedbackPrefix + feedback,
			}
			if err := commentRepo.Create(ctx, comment); err != nil {
				return err
			}
		}

		result.Summary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
