package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the full catalog",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Registers a new book; it starts AVAILABLE",
		Tags:        []string{"Books"},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Filters the catalog by title, author, category, and status; criteria combine with AND",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPopularBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/popular",
		Summary:     "List popular books",
		Description: "Returns books ranked by all-time loan count",
		Tags:        []string{"Books"},
	}, s.handleListPopularBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOldBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/old",
		Summary:     "List old books",
		Description: "Returns books published more than ten years ago",
		Tags:        []string{"Books"},
	}, s.handleListOldBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAvailableBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/available",
		Summary:     "List available books",
		Tags:        []string{"Books"},
	}, s.handleListAvailableBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBorrowedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/borrowed",
		Summary:     "List borrowed books",
		Tags:        []string{"Books"},
	}, s.handleListBorrowedBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookByISBN",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/isbn/{isbn}",
		Summary:     "Get book by ISBN",
		Tags:        []string{"Books"},
	}, s.handleGetBookByISBN)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/status/{status}",
		Summary:     "List books by status",
		Tags:        []string{"Books"},
	}, s.handleListBooksByStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByAuthor",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/author/{id}",
		Summary:     "List books by author",
		Tags:        []string{"Books"},
	}, s.handleListBooksByAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/category/{id}",
		Summary:     "List books by category",
		Tags:        []string{"Books"},
	}, s.handleListBooksByCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByYearRange",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/year-range",
		Summary:     "List books by publication year range",
		Tags:        []string{"Books"},
	}, s.handleListBooksByYearRange)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByPriceRange",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/price-range",
		Summary:     "List books by price range",
		Tags:        []string{"Books"},
	}, s.handleListBooksByPriceRange)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookStatusStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/statistics/status",
		Summary:     "Book counts per status",
		Description: "All six statuses are always present",
		Tags:        []string{"Books"},
	}, s.handleStatusStatistics)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookCategoryStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/statistics/categories",
		Summary:     "Book counts per category",
		Tags:        []string{"Books"},
	}, s.handleCategoryStatistics)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookYearStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/statistics/years",
		Summary:     "Book counts per publication year",
		Tags:        []string{"Books"},
	}, s.handleYearStatistics)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/recommendations",
		Summary:     "Get recommendations",
		Description: "Returns other books by the same author",
		Tags:        []string{"Books"},
	}, s.handleGetRecommendations)

	// Status transitions. The status machine is total, so each endpoint
	// simply replaces the current status.
	for _, transition := range []struct {
		operationID string
		path        string
		summary     string
		apply       func(context.Context, string) (*domain.Book, error)
	}{
		{"makeBookAvailable", "make-available", "Mark book available", s.services.Books.MakeAvailable},
		{"markBookBorrowed", "mark-borrowed", "Mark book borrowed", s.services.Books.MarkBorrowed},
		{"markBookReserved", "mark-reserved", "Mark book reserved", s.services.Books.MarkReserved},
		{"markBookLost", "mark-lost", "Mark book lost", s.services.Books.MarkLost},
		{"markBookDamaged", "mark-damaged", "Mark book damaged", s.services.Books.MarkDamaged},
		{"sendBookToMaintenance", "send-to-maintenance", "Send book to maintenance", s.services.Books.SendToMaintenance},
	} {
		apply := transition.apply
		huma.Register(s.api, huma.Operation{
			OperationID: transition.operationID,
			Method:      http.MethodPost,
			Path:        "/api/v1/books/{id}/" + transition.path,
			Summary:     transition.summary,
			Tags:        []string{"Books"},
		}, func(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
			book, err := apply(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return &BookOutput{Body: toBookResponse(book)}, nil
		})
	}
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID              string    `json:"id" doc:"Book ID"`
	Title           string    `json:"title" doc:"Title"`
	ISBN            string    `json:"isbn" doc:"ISBN"`
	Description     string    `json:"description,omitempty" doc:"Description"`
	PageCount       int       `json:"page_count,omitempty" doc:"Page count"`
	PublicationYear int       `json:"publication_year,omitempty" doc:"Publication year, 0 when unknown"`
	Publisher       string    `json:"publisher,omitempty" doc:"Publisher"`
	Language        string    `json:"language,omitempty" doc:"Language"`
	Price           float64   `json:"price,omitempty" doc:"Price"`
	Status          string    `json:"status" doc:"Availability status"`
	Location        string    `json:"location,omitempty" doc:"Shelf location"`
	CoverURL        string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	AuthorID        string    `json:"author_id,omitempty" doc:"Author ID"`
	CategoryIDs     []string  `json:"category_ids,omitempty" doc:"Category IDs"`
	Borrowable      bool      `json:"borrowable" doc:"Whether the book can be borrowed right now"`
	Reservable      bool      `json:"reservable" doc:"Whether the book can be reserved right now"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		Description:     b.Description,
		PageCount:       b.PageCount,
		PublicationYear: b.PublicationYear,
		Publisher:       b.Publisher,
		Language:        b.Language,
		Price:           b.Price,
		Status:          string(b.Status),
		Location:        b.Location,
		CoverURL:        b.CoverURL,
		AuthorID:        b.AuthorID,
		CategoryIDs:     b.CategoryIDs,
		Borrowable:      b.IsAvailableForBorrow(),
		Reservable:      b.IsAvailableForReservation(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookResponses(books []*domain.Book) []BookResponse {
	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = toBookResponse(b)
	}
	return resp
}

// BookListResponse contains a list of books.
type BookListResponse struct {
	Books []BookResponse `json:"books" doc:"List of books"`
}

// BookListOutput wraps the book list response for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// BookIDInput contains a book ID path parameter.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body service.CreateBookInput
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateBookInput
}

// SearchBooksInput contains the search query parameters.
type SearchBooksInput struct {
	Title    string `query:"title" doc:"Title substring, case-insensitive"`
	Author   string `query:"author" doc:"Author name substring, case-insensitive"`
	Category string `query:"category" doc:"Category name substring, case-insensitive"`
	Status   string `query:"status" doc:"Exact availability status"`
}

// LimitInput contains an optional result limit.
type LimitInput struct {
	Limit int `query:"limit" default:"10" minimum:"0" doc:"Maximum number of results, 0 for all"`
}

// RecommendationsInput contains parameters for book recommendations.
type RecommendationsInput struct {
	ID    string `path:"id" doc:"Book ID"`
	Limit int    `query:"limit" default:"5" minimum:"0" doc:"Maximum number of results, 0 for all"`
}

// YearRangeInput contains a publication year range. Both bounds must be
// supplied; an open-ended range is not a valid query.
type YearRangeInput struct {
	StartYear int `query:"start_year" required:"true" doc:"First year of the range, inclusive"`
	EndYear   int `query:"end_year" required:"true" doc:"Last year of the range, inclusive"`
}

// PriceRangeInput contains a price range. Both bounds must be supplied.
type PriceRangeInput struct {
	MinPrice float64 `query:"min_price" required:"true" doc:"Lower bound, inclusive"`
	MaxPrice float64 `query:"max_price" required:"true" doc:"Upper bound, inclusive"`
}

// StatusStatisticsOutput wraps the per-status book counts.
type StatusStatisticsOutput struct {
	Body map[string]int
}

// CategoryStatisticsOutput wraps the per-category book counts.
type CategoryStatisticsOutput struct {
	Body map[string]int
}

// YearStatisticsOutput wraps the per-year book counts, keyed by year.
type YearStatisticsOutput struct {
	Body map[string]int
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Books.CreateBook(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleGetBookByISBN(ctx context.Context, input *struct {
	ISBN string `path:"isbn" doc:"ISBN"`
}) (*BookOutput, error) {
	book, err := s.services.Books.GetBookByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	book, err := s.services.Books.UpdateBook(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	if err := s.services.Books.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BookListOutput, error) {
	books, err := s.services.Catalog.Search(ctx, service.SearchQuery{
		Title:    input.Title,
		Author:   input.Author,
		Category: input.Category,
		Status:   domain.BookStatus(input.Status),
	})
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListPopularBooks(ctx context.Context, input *LimitInput) (*BookListOutput, error) {
	books, err := s.services.Catalog.Popular(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListOldBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Catalog.OldBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListAvailableBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Books.ListAvailableBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBorrowedBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Books.ListBorrowedBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBooksByStatus(ctx context.Context, input *struct {
	Status string `path:"status" doc:"Availability status"`
}) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooksByStatus(ctx, domain.BookStatus(input.Status))
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBooksByAuthor(ctx context.Context, input *BookIDInput) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooksByAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBooksByCategory(ctx context.Context, input *BookIDInput) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooksByCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBooksByYearRange(ctx context.Context, input *YearRangeInput) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooksByYearRange(ctx, input.StartYear, input.EndYear)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleListBooksByPriceRange(ctx context.Context, input *PriceRangeInput) (*BookListOutput, error) {
	books, err := s.services.Books.ListBooksByPriceRange(ctx, input.MinPrice, input.MaxPrice)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, input *RecommendationsInput) (*BookListOutput, error) {
	books, err := s.services.Catalog.Recommendations(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: toBookResponses(books)}}, nil
}

func (s *Server) handleStatusStatistics(ctx context.Context, _ *struct{}) (*StatusStatisticsOutput, error) {
	stats, err := s.services.Catalog.StatusStatistics(ctx)
	if err != nil {
		return nil, err
	}
	body := make(map[string]int, len(stats))
	for status, count := range stats {
		body[string(status)] = count
	}
	return &StatusStatisticsOutput{Body: body}, nil
}

func (s *Server) handleCategoryStatistics(ctx context.Context, _ *struct{}) (*CategoryStatisticsOutput, error) {
	stats, err := s.services.Catalog.CategoryStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoryStatisticsOutput{Body: stats}, nil
}

func (s *Server) handleYearStatistics(ctx context.Context, _ *struct{}) (*YearStatisticsOutput, error) {
	stats, err := s.services.Catalog.YearStatistics(ctx)
	if err != nil {
		return nil, err
	}
	body := make(map[string]int, len(stats))
	for year, count := range stats {
		body[strconv.Itoa(year)] = count
	}
	return &YearStatisticsOutput{Body: body}, nil
}
