package repository

import (
	"context"
	"fmt"
	"strings"

	"readhub/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// GetAll returns one page of the catalog plus the total row count for the
// same filters. Search tokens must each match title, author or ISBN.
func (r *BookRepo) GetAll(ctx context.Context, page, pageSize int, search, category, difficulty string) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{})

	if category != "" {
		q = q.Where("category = ?", category)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	for _, t := range strings.Fields(search) {
		p := "%" + t + "%"
		// COALESCE so NULL isbn rows still match on title/author
		q = q.Where("(title ILIKE ? OR author ILIKE ? OR COALESCE(isbn,'') ILIKE ?)", p, p, p)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := q.
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create book: %w", err)
	}
	// GORM will populate b.ID and b.CreatedAt
	return nil
}

func (r *BookRepo) Update(ctx context.Context, id int64, b *models.Book) error {
	// ensure ID set for Save
	b.ID = id
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// GetCategories returns the distinct category names present in the catalog.
func (r *BookRepo) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
