package service_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
	"github.com/stackroomapp/stackroom-server/internal/store"
)

// testEnv bundles the services under test over a throwaway store.
type testEnv struct {
	store        *store.Store
	books        *service.BookService
	authors      *service.AuthorService
	categories   *service.CategoryService
	members      *service.MemberService
	loans        *service.LoanService
	reservations *service.ReservationService
	catalog      *service.CatalogService
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	books := service.NewBookService(s, logger)
	env := &testEnv{
		store:        s,
		books:        books,
		authors:      service.NewAuthorService(s, logger),
		categories:   service.NewCategoryService(s, logger),
		members:      service.NewMemberService(s, logger),
		loans:        service.NewLoanService(s, books, logger),
		reservations: service.NewReservationService(s, logger),
		catalog:      service.NewCatalogService(s, logger),
	}

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return env, cleanup
}

func (e *testEnv) createBook(t *testing.T, title, isbn string) *domain.Book {
	t.Helper()

	book, err := e.books.CreateBook(context.Background(), service.CreateBookInput{
		Title: title,
		ISBN:  isbn,
	})
	require.NoError(t, err)
	return book
}

func (e *testEnv) createMember(t *testing.T, email, number string) *domain.Member {
	t.Helper()

	member, err := e.members.CreateMember(context.Background(), service.CreateMemberInput{
		FirstName:        "Test",
		LastName:         "Member",
		Email:            email,
		MembershipNumber: number,
	})
	require.NoError(t, err)
	return member
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}
