package store

import (
	"context"
	"fmt"

	"storyhub/internal/models"
)

func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.conn(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory fails with ErrDuplicate when the name or slug is taken.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(s.conn(ctx).Create(category).Error, "create category "+category.Slug)
}
