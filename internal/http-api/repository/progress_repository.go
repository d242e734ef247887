package repository

import (
	"context"
	"time"

	"readhub/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressRepository struct {
	db *gorm.DB
}

type ProgressRepository interface {
	GetAllByUser(ctx context.Context, userID string) ([]models.Progress, error)
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Progress, error)
	GetByUsersSince(ctx context.Context, userIDs []string, since *time.Time) ([]models.Progress, error)
	Upsert(ctx context.Context, progress *models.Progress) error
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	CountCompletedByBook(ctx context.Context, bookID int64) (int64, error)
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Progress, error) {
	var list []models.Progress
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *progressRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Progress, error) {
	var progress models.Progress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&progress).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

// GetByUsersSince returns the progress rows for a set of users in one query,
// optionally restricted to rows touched at or after since. Aggregation over
// the result happens in the service layer.
func (r *progressRepository) GetByUsersSince(ctx context.Context, userIDs []string, since *time.Time) ([]models.Progress, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Preload("Book").Where("user_id IN ?", userIDs)
	if since != nil {
		q = q.Where("updated_at >= ?", *since)
	}
	var list []models.Progress
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert writes the progress row keyed by (user_id, book_id) in a single
// statement so concurrent updates for the same pair never produce two rows.
func (r *progressRepository) Upsert(ctx context.Context, progress *models.Progress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "current_page", "total_pages", "progress_percentage",
				"started_at", "completed_at", "updated_at",
			}),
		}).
		Create(progress).Error
}

func (r *progressRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("book_id = ?", bookID).
		Count(&n).Error
	return n, err
}

func (r *progressRepository) CountCompletedByBook(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("book_id = ? AND status = ?", bookID, models.StatusCompleted).
		Count(&n).Error
	return n, err
}
