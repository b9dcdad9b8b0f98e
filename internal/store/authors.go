package store

import (
	"context"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// GetAuthor retrieves an author by ID.
func (s *Store) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	return s.Authors.Get(ctx, id)
}

// GetAuthorByName retrieves an author by name, case-insensitively.
func (s *Store) GetAuthorByName(ctx context.Context, name string) (*domain.Author, error) {
	return s.Authors.GetByIndex(ctx, "name", name)
}

// ListAuthors returns all authors.
func (s *Store) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.Authors.All(ctx)
}

// CountBooksByAuthor returns the number of catalog books owned by the author.
func (s *Store) CountBooksByAuthor(ctx context.Context, authorID string) (int, error) {
	return s.Books.CountWhere(ctx, func(b *domain.Book) bool {
		return b.AuthorID == authorID
	})
}
