package store

import (
	"context"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// Book lookups and simple-predicate listings. Natural-key lookup goes
// through the unique ISBN index; everything else is a snapshot scan.

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.Books.Get(ctx, id)
}

// GetBookByISBN retrieves a book by its ISBN.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.Books.GetByIndex(ctx, "isbn", isbn)
}

// ListBooks returns the full catalog.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.Books.All(ctx)
}

// ListBooksByStatus returns all books currently in the given status.
func (s *Store) ListBooksByStatus(ctx context.Context, status domain.BookStatus) ([]*domain.Book, error) {
	return s.Books.Where(ctx, func(b *domain.Book) bool {
		return b.Status == status
	})
}

// ListBooksByAuthor returns all books owned by the given author.
func (s *Store) ListBooksByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error) {
	return s.Books.Where(ctx, func(b *domain.Book) bool {
		return b.AuthorID == authorID
	})
}

// ListBooksByCategory returns all books carrying the given category.
func (s *Store) ListBooksByCategory(ctx context.Context, categoryID string) ([]*domain.Book, error) {
	return s.Books.Where(ctx, func(b *domain.Book) bool {
		return b.HasCategory(categoryID)
	})
}

// ListBooksByYearRange returns books published within [startYear, endYear].
// Books with no publication year are excluded.
func (s *Store) ListBooksByYearRange(ctx context.Context, startYear, endYear int) ([]*domain.Book, error) {
	return s.Books.Where(ctx, func(b *domain.Book) bool {
		return b.PublicationYear != 0 && b.PublicationYear >= startYear && b.PublicationYear <= endYear
	})
}

// ListBooksByPriceRange returns books priced within [minPrice, maxPrice].
func (s *Store) ListBooksByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Book, error) {
	return s.Books.Where(ctx, func(b *domain.Book) bool {
		return b.Price >= minPrice && b.Price <= maxPrice
	})
}

// CountBooks returns the catalog size.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	return s.Books.Count(ctx)
}

// CountBooksByStatus returns the number of books in the given status.
func (s *Store) CountBooksByStatus(ctx context.Context, status domain.BookStatus) (int, error) {
	return s.Books.CountWhere(ctx, func(b *domain.Book) bool {
		return b.Status == status
	})
}
