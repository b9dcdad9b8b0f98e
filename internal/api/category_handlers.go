package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Tags:        []string{"Categories"},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Tags:        []string{"Categories"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Removes the category and detaches it from every book",
		Tags:        []string{"Categories"},
	}, s.handleDeleteCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryBookCounts",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}/book-counts",
		Summary:     "Get category book counts",
		Description: "Total and currently-available book counts for the category",
		Tags:        []string{"Categories"},
	}, s.handleGetCategoryBookCounts)
}

// === DTOs ===

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID          string    `json:"id" doc:"Category ID"`
	Name        string    `json:"name" doc:"Name"`
	Description string    `json:"description,omitempty" doc:"Description"`
	Color       string    `json:"color,omitempty" doc:"Display color"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryListResponse contains a list of categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// CategoryListOutput wraps the category list response for Huma.
type CategoryListOutput struct {
	Body CategoryListResponse
}

// CategoryOutput wraps a single category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// CategoryIDInput contains a category ID path parameter.
type CategoryIDInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body service.CreateCategoryInput
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body service.UpdateCategoryInput
}

// CategoryBookCountsOutput wraps the category book counts.
type CategoryBookCountsOutput struct {
	Body struct {
		Total     int `json:"total" doc:"Books tagged with this category"`
		Available int `json:"available" doc:"Tagged books available for borrowing"`
	}
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoryListOutput, error) {
	categories, err := s.services.Categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	return &CategoryListOutput{Body: CategoryListResponse{Categories: resp}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	category, err := s.services.Categories.CreateCategory(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *CategoryIDInput) (*CategoryOutput, error) {
	category, err := s.services.Categories.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	category, err := s.services.Categories.UpdateCategory(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *CategoryIDInput) (*struct{}, error) {
	if err := s.services.Categories.DeleteCategory(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetCategoryBookCounts(ctx context.Context, input *CategoryIDInput) (*CategoryBookCountsOutput, error) {
	total, err := s.services.Categories.BookCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	available, err := s.services.Categories.AvailableBookCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &CategoryBookCountsOutput{}
	out.Body.Total = total
	out.Body.Available = available
	return out, nil
}
