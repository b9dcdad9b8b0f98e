package store

import (
	"context"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.Categories.Get(ctx, id)
}

// GetCategoryByName retrieves a category by name, case-insensitively.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.Categories.GetByIndex(ctx, "name", name)
}

// ListCategories returns all categories.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.Categories.All(ctx)
}

// CountBooksByCategory returns the number of catalog books tagged with
// the category.
func (s *Store) CountBooksByCategory(ctx context.Context, categoryID string) (int, error) {
	return s.Books.CountWhere(ctx, func(b *domain.Book) bool {
		return b.HasCategory(categoryID)
	})
}
