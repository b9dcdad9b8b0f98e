// Package service provides the business logic layer for catalog management
// and circulation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// BookService manages the catalog of books and their availability status.
type BookService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateBookInput carries the fields accepted when registering a new book.
type CreateBookInput struct {
	Title           string   `json:"title" validate:"required,max=500"`
	ISBN            string   `json:"isbn" validate:"required,min=10,max=17"`
	Description     string   `json:"description" required:"false" validate:"max=2000"`
	PageCount       int      `json:"page_count" required:"false" validate:"gte=0"`
	PublicationYear int      `json:"publication_year" required:"false" validate:"gte=0"`
	Publisher       string   `json:"publisher" required:"false" validate:"max=255"`
	Language        string   `json:"language" required:"false" validate:"max=64"`
	Price           float64  `json:"price" required:"false" validate:"gte=0"`
	Location        string   `json:"location" required:"false" validate:"max=255"`
	CoverURL        string   `json:"cover_url" required:"false" validate:"omitempty,url"`
	AuthorID        string   `json:"author_id" required:"false"`
	CategoryIDs     []string `json:"category_ids" required:"false"`
}

// UpdateBookInput carries the mutable fields of a book. Nil pointers leave
// the current value untouched; Status changes go through the dedicated
// transition operations instead.
type UpdateBookInput struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,max=500"`
	ISBN            *string  `json:"isbn,omitempty" validate:"omitempty,min=10,max=17"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	PageCount       *int     `json:"page_count,omitempty" validate:"omitempty,gte=0"`
	PublicationYear *int     `json:"publication_year,omitempty" validate:"omitempty,gte=0"`
	Publisher       *string  `json:"publisher,omitempty" validate:"omitempty,max=255"`
	Language        *string  `json:"language,omitempty" validate:"omitempty,max=64"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location        *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	CoverURL        *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
	AuthorID        *string  `json:"author_id,omitempty"`
	CategoryIDs     []string `json:"category_ids,omitempty"`
}

// CreateBook registers a new book in the catalog. The book starts AVAILABLE.
// Returns ErrAlreadyExists when the ISBN is already registered.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if input.AuthorID != "" {
		if _, err := s.store.GetAuthor(ctx, input.AuthorID); err != nil {
			return nil, fmt.Errorf("get author: %w", err)
		}
	}
	for _, categoryID := range input.CategoryIDs {
		if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Base:            domain.Base{ID: bookID},
		Title:           input.Title,
		ISBN:            input.ISBN,
		Description:     input.Description,
		PageCount:       input.PageCount,
		PublicationYear: input.PublicationYear,
		Publisher:       input.Publisher,
		Language:        input.Language,
		Price:           input.Price,
		Status:          domain.StatusAvailable,
		Location:        input.Location,
		CoverURL:        input.CoverURL,
		AuthorID:        input.AuthorID,
		CategoryIDs:     input.CategoryIDs,
	}
	book.InitTimestamps()

	if err := s.store.Books.Create(ctx, book.ID, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", book.ID,
		"title", book.Title,
		"isbn", book.ISBN,
	)

	return book, nil
}

// GetBook retrieves a book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// GetBookByISBN retrieves a book by its ISBN.
func (s *BookService) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.store.GetBookByISBN(ctx, isbn)
}

// ListBooks returns the full catalog.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// ListBooksByStatus returns books currently in the given status.
// Returns a validation error for unknown statuses.
func (s *BookService) ListBooksByStatus(ctx context.Context, status domain.BookStatus) ([]*domain.Book, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown book status %q", status))
	}
	return s.store.ListBooksByStatus(ctx, status)
}

// ListAvailableBooks returns books that can be borrowed right now.
func (s *BookService) ListAvailableBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooksByStatus(ctx, domain.StatusAvailable)
}

// ListBorrowedBooks returns books currently out on loan.
func (s *BookService) ListBorrowedBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooksByStatus(ctx, domain.StatusBorrowed)
}

// ListBooksByAuthor returns all books by the given author.
func (s *BookService) ListBooksByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error) {
	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return s.store.ListBooksByAuthor(ctx, authorID)
}

// ListBooksByCategory returns all books carrying the given category.
func (s *BookService) ListBooksByCategory(ctx context.Context, categoryID string) ([]*domain.Book, error) {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return s.store.ListBooksByCategory(ctx, categoryID)
}

// ListBooksByYearRange returns books published within [startYear, endYear].
func (s *BookService) ListBooksByYearRange(ctx context.Context, startYear, endYear int) ([]*domain.Book, error) {
	if startYear > endYear {
		return nil, apperrors.Validation("start year must not exceed end year")
	}
	return s.store.ListBooksByYearRange(ctx, startYear, endYear)
}

// ListBooksByPriceRange returns books priced within [minPrice, maxPrice].
func (s *BookService) ListBooksByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Book, error) {
	if minPrice < 0 || minPrice > maxPrice {
		return nil, apperrors.Validation("price range must be non-negative and ordered")
	}
	return s.store.ListBooksByPriceRange(ctx, minPrice, maxPrice)
}

// UpdateBook applies the given changes to a book.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, input UpdateBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.ISBN != nil {
		book.ISBN = *input.ISBN
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.PageCount != nil {
		book.PageCount = *input.PageCount
	}
	if input.PublicationYear != nil {
		book.PublicationYear = *input.PublicationYear
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.Language != nil {
		book.Language = *input.Language
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.Location != nil {
		book.Location = *input.Location
	}
	if input.CoverURL != nil {
		book.CoverURL = *input.CoverURL
	}
	if input.AuthorID != nil {
		if *input.AuthorID != "" {
			if _, err := s.store.GetAuthor(ctx, *input.AuthorID); err != nil {
				return nil, fmt.Errorf("get author: %w", err)
			}
		}
		book.AuthorID = *input.AuthorID
	}
	if input.CategoryIDs != nil {
		for _, categoryID := range input.CategoryIDs {
			if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
				return nil, fmt.Errorf("get category: %w", err)
			}
		}
		book.CategoryIDs = input.CategoryIDs
	}
	book.Touch()

	if err := s.store.Books.Update(ctx, book.ID, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated", "book_id", book.ID)

	return book, nil
}

// DeleteBook removes a book from the catalog. Its loan and reservation
// history is kept.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if err := s.store.Books.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID)

	return nil
}

// Status transitions. The status machine is total: each operation replaces
// whatever status the book currently holds.

// MakeAvailable puts the book back on the shelf.
func (s *BookService) MakeAvailable(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusAvailable)
}

// MarkBorrowed flags the book as out on loan.
func (s *BookService) MarkBorrowed(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusBorrowed)
}

// MarkReserved flags the book as held for a reservation.
func (s *BookService) MarkReserved(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusReserved)
}

// MarkLost flags the book as lost.
func (s *BookService) MarkLost(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusLost)
}

// MarkDamaged flags the book as damaged.
func (s *BookService) MarkDamaged(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusDamaged)
}

// SendToMaintenance flags the book as under maintenance.
func (s *BookService) SendToMaintenance(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.setStatus(ctx, bookID, domain.StatusUnderMaintenance)
}

func (s *BookService) setStatus(ctx context.Context, bookID string, status domain.BookStatus) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	previous := book.Status
	book.Status = status
	book.Touch()

	if err := s.store.Books.Update(ctx, book.ID, book); err != nil {
		return nil, fmt.Errorf("update book status: %w", err)
	}

	s.logger.Info("book status changed",
		"book_id", book.ID,
		"from", previous,
		"to", status,
	)

	return book, nil
}

// BookAge returns the book's age in whole years.
func (s *BookService) BookAge(ctx context.Context, bookID string) (int, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("get book: %w", err)
	}
	return book.Age(time.Now()), nil
}
