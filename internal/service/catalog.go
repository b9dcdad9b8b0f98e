package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/store"
)

// CatalogService is the read side of the catalog: search, rankings,
// recommendations, and statistics. It holds no state of its own.
type CatalogService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

// SearchQuery holds the optional search criteria. Empty fields match
// everything; set fields are combined with AND.
type SearchQuery struct {
	Title    string
	Author   string
	Category string
	Status   domain.BookStatus
}

// Search filters the catalog by the query. Title, author name, and
// category name match as case-insensitive substrings; status matches
// exactly.
func (s *CatalogService) Search(ctx context.Context, query SearchQuery) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	authorNames, err := s.authorNamesByID(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames, err := s.categoryNamesByID(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.ToLower(query.Title)
	author := strings.ToLower(query.Author)
	category := strings.ToLower(query.Category)

	var matched []*domain.Book
	for _, book := range books {
		if title != "" && !strings.Contains(strings.ToLower(book.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(authorNames[book.AuthorID]), author) {
			continue
		}
		if category != "" && !bookMatchesCategory(book, categoryNames, category) {
			continue
		}
		if query.Status != "" && book.Status != query.Status {
			continue
		}
		matched = append(matched, book)
	}

	return matched, nil
}

func bookMatchesCategory(book *domain.Book, categoryNames map[string]string, needle string) bool {
	for _, categoryID := range book.CategoryIDs {
		if strings.Contains(strings.ToLower(categoryNames[categoryID]), needle) {
			return true
		}
	}
	return false
}

// Popular returns up to limit books ranked by all-time loan count,
// descending. Ties and never-borrowed books keep a stable title order, so
// the ranking is reproducible. The limit is applied once, after the full
// ranking.
func (s *CatalogService) Popular(ctx context.Context, limit int) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.LoanCountsByBook(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(books, func(i, j int) bool {
		ci, cj := counts[books[i].ID], counts[books[j].ID]
		if ci != cj {
			return ci > cj
		}
		return books[i].Title < books[j].Title
	})

	if limit > 0 && limit < len(books) {
		books = books[:limit]
	}
	return books, nil
}

// OldBooks returns books published more than ten years ago.
func (s *CatalogService) OldBooks(ctx context.Context) ([]*domain.Book, error) {
	now := time.Now()
	return s.store.Books.Where(ctx, func(b *domain.Book) bool {
		return b.IsOld(now)
	})
}

// Recommendations returns up to limit other books by the same author.
// Books without an author get no recommendations.
func (s *CatalogService) Recommendations(ctx context.Context, bookID string, limit int) ([]*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book.AuthorID == "" {
		return nil, nil
	}

	sameAuthor, err := s.store.ListBooksByAuthor(ctx, book.AuthorID)
	if err != nil {
		return nil, err
	}

	var recommended []*domain.Book
	for _, candidate := range sameAuthor {
		if candidate.ID == book.ID {
			continue
		}
		recommended = append(recommended, candidate)
	}
	sort.Slice(recommended, func(i, j int) bool {
		return recommended[i].Title < recommended[j].Title
	})

	if limit > 0 && limit < len(recommended) {
		recommended = recommended[:limit]
	}
	return recommended, nil
}

// StatusStatistics returns the book count per status. All six statuses are
// always present, zero-valued when no book holds them.
func (s *CatalogService) StatusStatistics(ctx context.Context) (map[domain.BookStatus]int, error) {
	stats := make(map[domain.BookStatus]int, 6)
	for _, status := range domain.AllBookStatuses() {
		stats[status] = 0
	}

	for book, err := range s.store.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		stats[book.Status]++
	}
	return stats, nil
}

// CategoryStatistics returns the book count per category name. A book with
// several categories counts once under each; uncategorized books do not
// appear.
func (s *CatalogService) CategoryStatistics(ctx context.Context) (map[string]int, error) {
	categoryNames, err := s.categoryNamesByID(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int)
	for book, err := range s.store.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		for _, categoryID := range book.CategoryIDs {
			name, ok := categoryNames[categoryID]
			if !ok {
				continue
			}
			stats[name]++
		}
	}
	return stats, nil
}

// YearStatistics returns the book count per publication year. Books
// without a publication year are excluded.
func (s *CatalogService) YearStatistics(ctx context.Context) (map[int]int, error) {
	stats := make(map[int]int)
	for book, err := range s.store.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		if book.PublicationYear == 0 {
			continue
		}
		stats[book.PublicationYear]++
	}
	return stats, nil
}

func (s *CatalogService) authorNamesByID(ctx context.Context) (map[string]string, error) {
	names := make(map[string]string)
	for author, err := range s.store.Authors.List(ctx) {
		if err != nil {
			return nil, err
		}
		names[author.ID] = author.Name
	}
	return names, nil
}

func (s *CatalogService) categoryNamesByID(ctx context.Context) (map[string]string, error) {
	names := make(map[string]string)
	for category, err := range s.store.Categories.List(ctx) {
		if err != nil {
			return nil, err
		}
		names[category.ID] = category.Name
	}
	return names, nil
}
