package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Tags:        []string{"Authors"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAuthor",
		Method:      http.MethodPost,
		Path:        "/api/v1/authors",
		Summary:     "Create author",
		Tags:        []string{"Authors"},
	}, s.handleCreateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthor",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Get author",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAuthor",
		Method:      http.MethodPatch,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Update author",
		Tags:        []string{"Authors"},
	}, s.handleUpdateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAuthor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Delete author",
		Tags:        []string{"Authors"},
	}, s.handleDeleteAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthorBookCounts",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{id}/book-counts",
		Summary:     "Get author book counts",
		Description: "Total and currently-available book counts for the author",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthorBookCounts)
}

// === DTOs ===

// AuthorResponse contains author data in API responses.
type AuthorResponse struct {
	ID          string    `json:"id" doc:"Author ID"`
	Name        string    `json:"name" doc:"Name"`
	Biography   string    `json:"biography,omitempty" doc:"Biography"`
	Email       string    `json:"email,omitempty" doc:"Contact email"`
	BirthYear   int       `json:"birth_year,omitempty" doc:"Birth year, 0 when unknown"`
	Nationality string    `json:"nationality,omitempty" doc:"Nationality"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toAuthorResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		Biography:   a.Biography,
		Email:       a.Email,
		BirthYear:   a.BirthYear,
		Nationality: a.Nationality,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AuthorListResponse contains a list of authors.
type AuthorListResponse struct {
	Authors []AuthorResponse `json:"authors" doc:"List of authors"`
}

// AuthorListOutput wraps the author list response for Huma.
type AuthorListOutput struct {
	Body AuthorListResponse
}

// AuthorOutput wraps a single author response for Huma.
type AuthorOutput struct {
	Body AuthorResponse
}

// AuthorIDInput contains an author ID path parameter.
type AuthorIDInput struct {
	ID string `path:"id" doc:"Author ID"`
}

// CreateAuthorInput wraps the create author request for Huma.
type CreateAuthorInput struct {
	Body service.CreateAuthorInput
}

// UpdateAuthorInput wraps the update author request for Huma.
type UpdateAuthorInput struct {
	ID   string `path:"id" doc:"Author ID"`
	Body service.UpdateAuthorInput
}

// AuthorBookCountsOutput wraps the author book counts.
type AuthorBookCountsOutput struct {
	Body struct {
		Total     int `json:"total" doc:"Books by this author in the catalog"`
		Available int `json:"available" doc:"Books by this author available for borrowing"`
	}
}

// === Handlers ===

func (s *Server) handleListAuthors(ctx context.Context, _ *struct{}) (*AuthorListOutput, error) {
	authors, err := s.services.Authors.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		resp[i] = toAuthorResponse(a)
	}
	return &AuthorListOutput{Body: AuthorListResponse{Authors: resp}}, nil
}

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*AuthorOutput, error) {
	author, err := s.services.Authors.CreateAuthor(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: toAuthorResponse(author)}, nil
}

func (s *Server) handleGetAuthor(ctx context.Context, input *AuthorIDInput) (*AuthorOutput, error) {
	author, err := s.services.Authors.GetAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: toAuthorResponse(author)}, nil
}

func (s *Server) handleUpdateAuthor(ctx context.Context, input *UpdateAuthorInput) (*AuthorOutput, error) {
	author, err := s.services.Authors.UpdateAuthor(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: toAuthorResponse(author)}, nil
}

func (s *Server) handleDeleteAuthor(ctx context.Context, input *AuthorIDInput) (*struct{}, error) {
	if err := s.services.Authors.DeleteAuthor(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetAuthorBookCounts(ctx context.Context, input *AuthorIDInput) (*AuthorBookCountsOutput, error) {
	total, err := s.services.Authors.BookCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	available, err := s.services.Authors.AvailableBookCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &AuthorBookCountsOutput{}
	out.Body.Total = total
	out.Body.Available = available
	return out, nil
}
