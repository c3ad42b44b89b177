package service

import (
	"context"
	"fmt"

	"github.com/vinped/vinped/internal/model"
	"github.com/vinped/vinped/internal/repository"
)

// CategoryService exposes the category catalog: the seeded defaults
// plus the caller's own categories.
type CategoryService struct {
	repo *repository.Repository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo *repository.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListCategories returns the categories visible to the user.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}
