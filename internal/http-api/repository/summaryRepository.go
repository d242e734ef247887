package repository

import (
	"context"
	"time"

	"readhub/internal/http-api/models"

	"gorm.io/gorm"
)

type SummaryRepository interface {
	Create(ctx context.Context, summary *models.Summary) error
	GetByID(ctx context.Context, id int64) (*models.Summary, error)
	ExistsByUserAndBook(ctx context.Context, userID string, bookID int64) (bool, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Summary, int64, error)
	GetByUser(ctx context.Context, userID string) ([]models.Summary, error)
	GetByUsersSince(ctx context.Context, userIDs []string, since *time.Time) ([]models.Summary, error)
	SetRating(ctx context.Context, id int64, rating int, ratedAt time.Time) error
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	CalculateAverageRating(ctx context.Context, bookID int64) (float64, error)
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// Create a new summary
func (r *summaryRepository) Create(ctx context.Context, summary *models.Summary) error {
	return r.db.WithContext(ctx).Create(summary).Error
}

// GetByID retrieves a summary with its author and book loaded
func (r *summaryRepository) GetByID(ctx context.Context, id int64) (*models.Summary, error) {
	var summary models.Summary
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		First(&summary, id).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExistsByUserAndBook reports whether the user already wrote a summary for the book
func (r *summaryRepository) ExistsByUserAndBook(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Summary{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByBook retrieves all summaries for a book with pagination
func (r *summaryRepository) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Summary, int64, error) {
	var summaries []models.Summary
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Summary{}).Where("book_id = ?", bookID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&summaries).Error
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

func (r *summaryRepository) GetByUser(ctx context.Context, userID string) ([]models.Summary, error) {
	var summaries []models.Summary
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetByUsersSince returns summaries for a set of users in one query,
// optionally restricted to those created at or after since.
func (r *summaryRepository) GetByUsersSince(ctx context.Context, userIDs []string, since *time.Time) ([]models.Summary, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Where("user_id IN ?", userIDs)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var summaries []models.Summary
	if err := q.Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// SetRating stores the teacher's score and when it was given
func (r *summaryRepository) SetRating(ctx context.Context, id int64, rating int, ratedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Summary{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":   rating,
			"rated_at": ratedAt,
		}).Error
}

// CountByBook counts the summaries written for a book
func (r *summaryRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Summary{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// CalculateAverageRating averages the teacher scores for a book's summaries.
// Unrated summaries are left out of the average.
func (r *summaryRepository) CalculateAverageRating(ctx context.Context, bookID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).Model(&models.Summary{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("book_id = ? AND rating IS NOT NULL", bookID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}
