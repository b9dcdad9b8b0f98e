package store

import (
	"context"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// GetLoan retrieves a loan by ID.
func (s *Store) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.Loans.Get(ctx, id)
}

// ListLoans returns the full lending ledger.
func (s *Store) ListLoans(ctx context.Context) ([]*domain.Loan, error) {
	return s.Loans.All(ctx)
}

// ListLoansByMember returns every loan, open or closed, held by the member.
func (s *Store) ListLoansByMember(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	return s.Loans.Where(ctx, func(l *domain.Loan) bool {
		return l.MemberID == memberID
	})
}

// ListLoansByBook returns the lending history of a single book.
func (s *Store) ListLoansByBook(ctx context.Context, bookID string) ([]*domain.Loan, error) {
	return s.Loans.Where(ctx, func(l *domain.Loan) bool {
		return l.BookID == bookID
	})
}

// ListOpenLoans returns loans that have not been returned yet.
func (s *Store) ListOpenLoans(ctx context.Context) ([]*domain.Loan, error) {
	return s.Loans.Where(ctx, func(l *domain.Loan) bool {
		return !l.IsReturned()
	})
}

// ListOverdueLoans returns open loans past their due date as of the given
// date. Loans already returned, even late, are closed ledger entries and
// not listed.
func (s *Store) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	return s.Loans.Where(ctx, func(l *domain.Loan) bool {
		return !l.IsReturned() && l.IsOverdue(asOf)
	})
}

// OpenLoanForBook returns the open loan on the given book, or ErrNotFound
// when the book is not out on loan.
func (s *Store) OpenLoanForBook(ctx context.Context, bookID string) (*domain.Loan, error) {
	loans, err := s.Loans.Where(ctx, func(l *domain.Loan) bool {
		return l.BookID == bookID && !l.IsReturned()
	})
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, ErrNotFound.WithDetails("no open loan for book " + bookID)
	}
	return loans[0], nil
}

// CountOpenLoansByMember returns how many books the member currently
// holds out on loan.
func (s *Store) CountOpenLoansByMember(ctx context.Context, memberID string) (int, error) {
	return s.Loans.CountWhere(ctx, func(l *domain.Loan) bool {
		return l.MemberID == memberID && !l.IsReturned()
	})
}

// LoanCountsByBook returns how many times each book has ever been
// borrowed, keyed by book ID.
func (s *Store) LoanCountsByBook(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for loan, err := range s.Loans.List(ctx) {
		if err != nil {
			return nil, err
		}
		counts[loan.BookID]++
	}
	return counts, nil
}
