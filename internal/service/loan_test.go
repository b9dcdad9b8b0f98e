package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func TestLoanService_Borrow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Borrowed Book", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	loan, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     book.ID,
		MemberID:   member.ID,
		BorrowDate: datePtr(2024, time.January, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 1), loan.BorrowDate)
	assert.Equal(t, date(2024, time.January, 15), loan.DueDate)
	assert.False(t, loan.IsReturned())

	// Borrow does not touch the status flag.
	persisted, err := env.books.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, persisted.Status)
}

func TestLoanService_Borrow_UnknownBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	member := env.createMember(t, "reader@example.com", "M-0001")

	_, err := env.loans.Borrow(context.Background(), service.BorrowInput{
		BookID:   "book-missing",
		MemberID: member.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoanService_Borrow_InactiveMember(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Some Book", "isbn-loan-1")
	member := env.createMember(t, "lapsed@example.com", "M-0001")

	inactive := false
	_, err := env.members.UpdateMember(ctx, member.ID, service.UpdateMemberInput{Active: &inactive})
	require.NoError(t, err)

	_, err = env.loans.Borrow(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLoanService_Return(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Round Trip", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	loan, err := env.loans.Checkout(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	returned, err := env.loans.Return(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned())
	assert.Equal(t, 0.0, returned.FineAmount)

	// The book goes back on the shelf.
	persisted, err := env.books.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, persisted.Status)

	// Returning twice is a conflict.
	_, err = env.loans.Return(ctx, loan.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLoanService_Return_FailedTransitionSurfaces(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Vanishing Book", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	loan, err := env.loans.Checkout(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	// If the book is gone by return time, the AVAILABLE transition cannot
	// happen and the caller has to hear about it.
	require.NoError(t, env.books.DeleteBook(ctx, book.ID))

	_, err = env.loans.Return(ctx, loan.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The ledger entry itself still closed before the transition failed.
	persisted, err := env.loans.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, persisted.IsReturned())
}

func TestLoanService_Return_OverdueLoanGetsFine(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Late Book", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	// Borrowed long enough ago that the due date is well past.
	borrowed := time.Now().AddDate(0, 0, -30)
	loan, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     book.ID,
		MemberID:   member.ID,
		BorrowDate: &borrowed,
	})
	require.NoError(t, err)

	returned, err := env.loans.Return(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned())
	// 30 days out, 14-day period, 1.0/day.
	assert.InDelta(t, 16.0, returned.FineAmount, 0.001)
}

func TestLoanService_Checkout(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Guarded Book", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	loan, err := env.loans.Checkout(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	persisted, err := env.books.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, persisted.Status)

	// A second checkout on the same copy is refused.
	other := env.createMember(t, "other@example.com", "M-0002")
	_, err = env.loans.Checkout(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: other.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Checkin releases the copy for the next borrower.
	_, err = env.loans.Checkin(ctx, loan.ID)
	require.NoError(t, err)

	_, err = env.loans.Checkout(ctx, service.BorrowInput{
		BookID:   book.ID,
		MemberID: other.ID,
	})
	require.NoError(t, err)
}

func TestLoanService_ListOverdueLoans(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	bookA := env.createBook(t, "On Time", "isbn-loan-1")
	bookB := env.createBook(t, "Late", "isbn-loan-2")
	member := env.createMember(t, "reader@example.com", "M-0001")

	_, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     bookA.ID,
		MemberID:   member.ID,
		BorrowDate: datePtr(2024, time.March, 1),
	})
	require.NoError(t, err)

	late, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     bookB.ID,
		MemberID:   member.ID,
		BorrowDate: datePtr(2024, time.January, 1),
	})
	require.NoError(t, err)

	// A loan returned after its due date is closed; only open loans
	// belong in the overdue listing.
	bookC := env.createBook(t, "Returned Late", "isbn-loan-3")
	closed, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     bookC.ID,
		MemberID:   member.ID,
		BorrowDate: datePtr(2024, time.January, 1),
	})
	require.NoError(t, err)
	_, err = env.loans.Return(ctx, closed.ID)
	require.NoError(t, err)

	overdue, err := env.loans.ListOverdueLoans(ctx, date(2024, time.March, 5))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}

func TestLoanService_Fine(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Fined Book", "isbn-loan-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	loan, err := env.loans.Borrow(ctx, service.BorrowInput{
		BookID:     book.ID,
		MemberID:   member.ID,
		BorrowDate: datePtr(2024, time.January, 1),
	})
	require.NoError(t, err)

	// Due 2024-01-15; five days over on 2024-01-20.
	fine, err := env.loans.Fine(ctx, loan.ID, date(2024, time.January, 20))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, fine, 0.001)

	// Not yet due: no fine.
	fine, err = env.loans.Fine(ctx, loan.ID, date(2024, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 0.0, fine)
}
