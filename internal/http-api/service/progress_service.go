package service

import (
	"context"
	"errors"
	"time"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("invalid status")

// ProgressUpdateResult carries the written row plus the points outcome so
// the response can show what the update earned.
type ProgressUpdateResult struct {
	Progress      *models.Progress
	PointsAwarded int
	TotalPoints   int
	Level         int
}

type ProgressService interface {
	Update(ctx context.Context, userID string, bookID int64, currentPage int, status string, totalPages *int) (*ProgressUpdateResult, error)
	Get(ctx context.Context, userID string, bookID int64) (*models.Progress, error)
	GetByUser(ctx context.Context, userID string) ([]models.Progress, error)
}

type progressService struct {
	db       *gorm.DB
	repo     repository.ProgressRepository
	bookRepo *repository.BookRepo
}

func NewProgressService(db *gorm.DB, repo repository.ProgressRepository, bookRepo *repository.BookRepo) ProgressService {
	return &progressService{
		db:       db,
		repo:     repo,
		bookRepo: bookRepo,
	}
}

// Update upserts the (user, book) progress row and awards points on
// achievement transitions. The row write and the points write run in one
// transaction so a failure cannot leave points out of step with progress.
//
// Awards fire on edges only: +100 when the row first turns COMPLETED,
// +25 when it first reaches READING at 50% or more. Re-saving the same
// state earns nothing.
func (s *progressService) Update(ctx context.Context, userID string, bookID int64, currentPage int, status string, totalPages *int) (*ProgressUpdateResult, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if currentPage < 0 {
		return nil, errors.New("currentPage must not be negative")
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// Effective page total: request override, else the catalog value.
	effectivePages := book.Pages
	if totalPages != nil && *totalPages > 0 {
		effectivePages = *totalPages
	}

	var percentage float64
	if effectivePages > 0 {
		percentage = float64(currentPage) / float64(effectivePages) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	result := &ProgressUpdateResult{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := repository.NewProgressRepository(tx)
		userRepo := repository.NewUserRepository(tx)

		existing, err := progressRepo.GetByUserAndBook(ctx, userID, bookID)
		if err != nil {
			return err
		}

		newStatus := status
		if newStatus == "" {
			// Status omitted: keep the current one, NOT_STARTED on first write.
			if existing != nil {
				newStatus = existing.Status
			} else {
				newStatus = models.StatusNotStarted
			}
		}

		now := time.Now()
		progress := &models.Progress{
			UserID:             userID,
			BookID:             bookID,
			Status:             newStatus,
			CurrentPage:        currentPage,
			TotalPages:         effectivePages,
			ProgressPercentage: percentage,
			UpdatedAt:          now,
		}

		// startedAt is stamped once, when reading activity first begins.
		switch {
		case existing != nil && existing.StartedAt != nil:
			progress.StartedAt = existing.StartedAt
		case newStatus == models.StatusReading, newStatus == models.StatusPaused, newStatus == models.StatusCompleted:
			progress.StartedAt = &now
		}

		completedEdge := newStatus == models.StatusCompleted &&
			(existing == nil || existing.Status != models.StatusCompleted)

		if newStatus == models.StatusCompleted {
			if completedEdge {
				progress.CompletedAt = &now
			} else {
				progress.CompletedAt = existing.CompletedAt
			}
		} else if existing != nil {
			// A rewound book keeps its original completion timestamp.
			progress.CompletedAt = existing.CompletedAt
		}

		if err := progressRepo.Upsert(ctx, progress); err != nil {
			return err
		}

		halfwayEdge := newStatus == models.StatusReading && percentage >= 50 &&
			(existing == nil || existing.Status != models.StatusReading || existing.ProgressPercentage < 50)

		awarded := 0
		if completedEdge {
			awarded += PointsBookCompleted
		}
		if halfwayEdge {
			awarded += PointsHalfwayReached
		}

		if awarded > 0 {
			total, err := userRepo.AddPoints(ctx, userID, awarded)
			if err != nil {
				return err
			}
			level := LevelForPoints(total)
			if err := userRepo.SetLevel(ctx, userID, level); err != nil {
				return err
			}
			result.TotalPoints = total
			result.Level = level
		} else {
			user, err := userRepo.GetUserByID(ctx, userID)
			if err != nil {
				return err
			}
			if user == nil {
				return ErrUserNotFound
			}
			result.TotalPoints = user.Points
			result.Level = user.Level
		}

		result.Progress = progress
		result.PointsAwarded = awarded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *progressService) Get(ctx context.Context, userID string, bookID int64) (*models.Progress, error) {
	return s.repo.GetByUserAndBook(ctx, userID, bookID)
}

func (s *progressService) GetByUser(ctx context.Context, userID string) ([]models.Progress, error) {
	return s.repo.GetAllByUser(ctx, userID)
}
