package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// AuthorService manages authors.
type AuthorService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthorService creates a new author service.
func NewAuthorService(store *store.Store, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateAuthorInput carries the fields accepted when registering an author.
type CreateAuthorInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Biography   string `json:"biography" required:"false" validate:"max=5000"`
	Email       string `json:"email" required:"false" validate:"omitempty,email"`
	BirthYear   int    `json:"birth_year" required:"false" validate:"gte=0"`
	Nationality string `json:"nationality" required:"false" validate:"max=128"`
}

// UpdateAuthorInput carries the mutable author fields. Nil means unchanged.
type UpdateAuthorInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Biography   *string `json:"biography,omitempty" validate:"omitempty,max=5000"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	BirthYear   *int    `json:"birth_year,omitempty" validate:"omitempty,gte=0"`
	Nationality *string `json:"nationality,omitempty" validate:"omitempty,max=128"`
}

// CreateAuthor registers a new author. Author names are unique
// case-insensitively.
func (s *AuthorService) CreateAuthor(ctx context.Context, input CreateAuthorInput) (*domain.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	authorID, err := id.Generate(id.PrefixAuthor)
	if err != nil {
		return nil, fmt.Errorf("generate author ID: %w", err)
	}

	author := &domain.Author{
		Base:        domain.Base{ID: authorID},
		Name:        input.Name,
		Biography:   input.Biography,
		Email:       input.Email,
		BirthYear:   input.BirthYear,
		Nationality: input.Nationality,
	}
	author.InitTimestamps()

	if err := s.store.Authors.Create(ctx, author.ID, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	s.logger.Info("author created", "author_id", author.ID, "name", author.Name)

	return author, nil
}

// GetAuthor retrieves an author by ID.
func (s *AuthorService) GetAuthor(ctx context.Context, authorID string) (*domain.Author, error) {
	return s.store.GetAuthor(ctx, authorID)
}

// GetAuthorByName retrieves an author by name, case-insensitively.
func (s *AuthorService) GetAuthorByName(ctx context.Context, name string) (*domain.Author, error) {
	return s.store.GetAuthorByName(ctx, name)
}

// ListAuthors returns all authors.
func (s *AuthorService) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.store.ListAuthors(ctx)
}

// UpdateAuthor applies the given changes to an author.
func (s *AuthorService) UpdateAuthor(ctx context.Context, authorID string, input UpdateAuthorInput) (*domain.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	author, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	if input.Name != nil {
		author.Name = *input.Name
	}
	if input.Biography != nil {
		author.Biography = *input.Biography
	}
	if input.Email != nil {
		author.Email = *input.Email
	}
	if input.BirthYear != nil {
		author.BirthYear = *input.BirthYear
	}
	if input.Nationality != nil {
		author.Nationality = *input.Nationality
	}
	author.Touch()

	if err := s.store.Authors.Update(ctx, author.ID, author); err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}

	s.logger.Info("author updated", "author_id", author.ID)

	return author, nil
}

// DeleteAuthor removes an author. Books keep their dangling author
// reference; the catalog treats a missing author like no author.
func (s *AuthorService) DeleteAuthor(ctx context.Context, authorID string) error {
	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if err := s.store.Authors.Delete(ctx, authorID); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	s.logger.Info("author deleted", "author_id", authorID)

	return nil
}

// BookCount returns the number of catalog books owned by the author.
func (s *AuthorService) BookCount(ctx context.Context, authorID string) (int, error) {
	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		return 0, fmt.Errorf("get author: %w", err)
	}
	return s.store.CountBooksByAuthor(ctx, authorID)
}

// AvailableBookCount returns how many of the author's books are available
// for borrowing right now.
func (s *AuthorService) AvailableBookCount(ctx context.Context, authorID string) (int, error) {
	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		return 0, fmt.Errorf("get author: %w", err)
	}
	books, err := s.store.ListBooksByAuthor(ctx, authorID)
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

// AuthorAge returns the author's age in years, or 0 when the birth year
// is unknown.
func (s *AuthorService) AuthorAge(ctx context.Context, authorID string) (int, error) {
	author, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("get author: %w", err)
	}
	return author.Age(time.Now()), nil
}
