package service

import (
	"context"
	"fmt"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	UpdateWishlist(ctx context.Context, id uint, wishlist string) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateWishlist(ctx context.Context, id uint, wishlist string) error {
	if err := s.repo.UpdateWishlist(ctx, id, wishlist); err != nil {
		return fmt.Errorf("s.repo.UpdateWishlist -> %w", err)
	}

	return nil
}
