package service

import (
	"context"
	"errors"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateRole sets a user's role. Only admins reach this; the route guard
// enforces that, the service just validates the value and the target.
func (s *userService) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, userID)
}
