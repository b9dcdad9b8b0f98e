package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// CategoryService manages book categories.
type CategoryService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCategoryService creates a new category service.
func NewCategoryService(store *store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" required:"false" validate:"max=2000"`
	Color       string `json:"color" required:"false" validate:"omitempty,hexcolor"`
}

// UpdateCategoryInput carries the mutable category fields. Nil means
// unchanged.
type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateCategory creates a new category. Names are unique
// case-insensitively.
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	category := &domain.Category{
		Base:        domain.Base{ID: categoryID},
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
	}
	category.InitTimestamps()

	if err := s.store.Categories.Create(ctx, category.ID, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)

	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, categoryID)
}

// GetCategoryByName retrieves a category by name, case-insensitively.
func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.store.GetCategoryByName(ctx, name)
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// UpdateCategory applies the given changes to a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID string, input UpdateCategoryInput) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Color != nil {
		category.Color = *input.Color
	}
	category.Touch()

	if err := s.store.Categories.Update(ctx, category.ID, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.logger.Info("category updated", "category_id", category.ID)

	return category, nil
}

// DeleteCategory removes a category and detaches it from every book that
// carries it.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("get category: %w", err)
	}

	books, err := s.store.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("list books by category: %w", err)
	}
	for _, book := range books {
		book.RemoveCategory(categoryID)
		book.Touch()
		if err := s.store.Books.Update(ctx, book.ID, book); err != nil {
			return fmt.Errorf("detach category from book %s: %w", book.ID, err)
		}
	}

	if err := s.store.Categories.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "detached_books", len(books))

	return nil
}

// BookCount returns the number of catalog books tagged with the category.
func (s *CategoryService) BookCount(ctx context.Context, categoryID string) (int, error) {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return 0, fmt.Errorf("get category: %w", err)
	}
	return s.store.CountBooksByCategory(ctx, categoryID)
}

// AvailableBookCount returns how many books in the category can be
// borrowed right now.
func (s *CategoryService) AvailableBookCount(ctx context.Context, categoryID string) (int, error) {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return 0, fmt.Errorf("get category: %w", err)
	}
	books, err := s.store.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, b := range books {
		if b.IsAvailableForBorrow() {
			count++
		}
	}
	return count, nil
}
