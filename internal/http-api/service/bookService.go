package service

import (
	"context"
	"errors"
	"strings"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
)

var validDifficulties = map[string]bool{
	models.DifficultyBeginner:     true,
	models.DifficultyIntermediate: true,
	models.DifficultyAdvanced:     true,
}

// BookStats are the per-book aggregates shown on the detail page.
type BookStats struct {
	ReadersCount   int64
	CompletedCount int64
	SummariesCount int64
	AverageRating  float64
}

type BookService interface {
	GetAll(ctx context.Context, page, pageSize int, search, category, difficulty string) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	GetStats(ctx context.Context, id int64) (*BookStats, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, b *models.Book) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
	GetCategories(ctx context.Context) ([]string, error)
}

type bookService struct {
	repo         *repository.BookRepo
	progressRepo repository.ProgressRepository
	summaryRepo  repository.SummaryRepository
}

func NewBookService(
	repo *repository.BookRepo,
	progressRepo repository.ProgressRepository,
	summaryRepo repository.SummaryRepository,
) BookService {
	return &bookService{
		repo:         repo,
		progressRepo: progressRepo,
		summaryRepo:  summaryRepo,
	}
}

func (s *bookService) GetAll(ctx context.Context, page, pageSize int, search, category, difficulty string) ([]models.Book, int64, error) {
	if difficulty != "" && !validDifficulties[difficulty] {
		return nil, 0, errors.New("invalid difficulty filter")
	}
	return s.repo.GetAll(ctx, page, pageSize, search, category, difficulty)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetStats composes the detail-page aggregates from flat per-table queries.
func (s *bookService) GetStats(ctx context.Context, id int64) (*BookStats, error) {
	readers, err := s.progressRepo.CountByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.CountCompletedByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaryRepo.CountByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, err := s.summaryRepo.CalculateAverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookStats{
		ReadersCount:   readers,
		CompletedCount: completed,
		SummariesCount: summaries,
		AverageRating:  avg,
	}, nil
}

func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	// basic validation
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(b.Author) == "" {
		return errors.New("author is required")
	}
	if strings.TrimSpace(b.Category) == "" {
		return errors.New("category is required")
	}
	if b.Difficulty == "" {
		b.Difficulty = models.DifficultyBeginner
	}
	if !validDifficulties[b.Difficulty] {
		return errors.New("invalid difficulty")
	}
	if b.Pages < 0 {
		return errors.New("pages must not be negative")
	}
	if b.Language == "" {
		b.Language = "en"
	}

	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrDuplicateISBN
		}
		return err
	}
	return nil
}

func (s *bookService) Update(ctx context.Context, id int64, b *models.Book) (*models.Book, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply fields that are non-nil / non-zero in b to existing
	if strings.TrimSpace(b.Title) != "" {
		existing.Title = strings.TrimSpace(b.Title)
	}
	if strings.TrimSpace(b.Author) != "" {
		existing.Author = strings.TrimSpace(b.Author)
	}
	if strings.TrimSpace(b.Category) != "" {
		existing.Category = b.Category
	}
	if b.Difficulty != "" {
		if !validDifficulties[b.Difficulty] {
			return nil, errors.New("invalid difficulty")
		}
		existing.Difficulty = b.Difficulty
	}
	if b.Pages > 0 {
		existing.Pages = b.Pages
	}
	if b.Language != "" {
		existing.Language = b.Language
	}
	if b.ISBN != nil {
		existing.ISBN = b.ISBN
	}
	if b.Description != nil {
		existing.Description = b.Description
	}
	if b.CoverURL != nil {
		existing.CoverURL = b.CoverURL
	}

	if err := s.repo.Update(ctx, id, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}
	return existing, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *bookService) GetCategories(ctx context.Context) ([]string, error) {
	return s.repo.GetCategories(ctx)
}
