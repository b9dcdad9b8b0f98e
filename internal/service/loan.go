package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// LoanService manages the lending ledger.
//
// The base Borrow/Return operations record ledger entries without guarding
// the book's status flag. Checkout and Checkin are the orchestrated pair:
// they hold a per-book lock so the status flag and the open loan move
// together.
type LoanService struct {
	store     *store.Store
	books     *BookService
	logger    *slog.Logger
	validator *validation.Validator

	mu        sync.Mutex
	bookLocks map[string]*sync.Mutex
}

// NewLoanService creates a new loan service.
func NewLoanService(store *store.Store, books *BookService, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:     store,
		books:     books,
		logger:    logger,
		validator: validation.New(),
		bookLocks: make(map[string]*sync.Mutex),
	}
}

// bookLock returns the mutex serializing circulation on one book. Locks
// are never reclaimed; the map grows with the catalog, which stays small.
func (s *LoanService) bookLock(bookID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.bookLocks[bookID]
	if !ok {
		lock = &sync.Mutex{}
		s.bookLocks[bookID] = lock
	}
	return lock
}

// BorrowInput carries the fields accepted when recording a loan.
type BorrowInput struct {
	BookID     string     `json:"book_id" validate:"required"`
	MemberID   string     `json:"member_id" validate:"required"`
	BorrowDate *time.Time `json:"borrow_date" required:"false"` // defaults to today
	Notes      string     `json:"notes" required:"false" validate:"max=1000"`
}

// Borrow records a loan in the ledger. The book and member must exist and
// the member's membership must be active; the book's status flag is NOT
// consulted or changed. Use Checkout for the guarded operation.
func (s *LoanService) Borrow(ctx context.Context, input BorrowInput) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, input.BookID); err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	member, err := s.store.GetMember(ctx, input.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	now := time.Now()
	if !member.IsMembershipActive(now) {
		return nil, apperrors.Conflict("membership is not active")
	}

	borrowDate := domain.DateOnly(now)
	if input.BorrowDate != nil {
		borrowDate = domain.DateOnly(*input.BorrowDate)
	}

	loanID, err := id.Generate(id.PrefixLoan)
	if err != nil {
		return nil, fmt.Errorf("generate loan ID: %w", err)
	}

	loan := &domain.Loan{
		Base:       domain.Base{ID: loanID},
		BookID:     input.BookID,
		MemberID:   input.MemberID,
		BorrowDate: borrowDate,
		Notes:      input.Notes,
	}
	loan.FillDefaultDueDate()
	loan.InitTimestamps()

	if err := s.store.Loans.Create(ctx, loan.ID, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.logger.Info("loan recorded",
		"loan_id", loan.ID,
		"book_id", loan.BookID,
		"member_id", loan.MemberID,
		"due_date", loan.DueDate,
	)

	return loan, nil
}

// GetLoan retrieves a loan by ID.
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.store.GetLoan(ctx, loanID)
}

// ListLoans returns the full lending ledger.
func (s *LoanService) ListLoans(ctx context.Context) ([]*domain.Loan, error) {
	return s.store.ListLoans(ctx)
}

// ListOpenLoans returns loans that have not been returned yet.
func (s *LoanService) ListOpenLoans(ctx context.Context) ([]*domain.Loan, error) {
	return s.store.ListOpenLoans(ctx)
}

// ListOverdueLoans returns loans overdue as of the given date.
func (s *LoanService) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	return s.store.ListOverdueLoans(ctx, asOf)
}

// ListLoansByMember returns every loan held by the member.
func (s *LoanService) ListLoansByMember(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return s.store.ListLoansByMember(ctx, memberID)
}

// ListLoansByBook returns the lending history of a book.
func (s *LoanService) ListLoansByBook(ctx context.Context, bookID string) ([]*domain.Loan, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return s.store.ListLoansByBook(ctx, bookID)
}

// Return closes a loan: stamps today as the return date, computes the
// final fine, and puts the book back to AVAILABLE. Returning an already
// returned loan is a conflict.
func (s *LoanService) Return(ctx context.Context, loanID string) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}
	if loan.IsReturned() {
		return nil, apperrors.Conflict("loan is already returned")
	}

	loan.MarkReturned(time.Now())
	loan.Touch()

	if err := s.store.Loans.Update(ctx, loan.ID, loan); err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}

	if _, err := s.books.MakeAvailable(ctx, loan.BookID); err != nil {
		// The ledger entry is already closed at this point; the caller
		// still has to learn the book never went back to AVAILABLE.
		s.logger.Error("could not mark returned book available",
			"loan_id", loan.ID,
			"book_id", loan.BookID,
			"error", err,
		)
		return nil, fmt.Errorf("mark book available (loan %s already closed): %w", loan.ID, err)
	}

	s.logger.Info("loan returned",
		"loan_id", loan.ID,
		"book_id", loan.BookID,
		"fine", loan.FineAmount,
	)

	return loan, nil
}

// Checkout is the guarded borrow: under the book's lock it verifies the
// book is AVAILABLE, records the loan, and flips the book to BORROWED.
func (s *LoanService) Checkout(ctx context.Context, input BorrowInput) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	lock := s.bookLock(input.BookID)
	lock.Lock()
	defer lock.Unlock()

	book, err := s.store.GetBook(ctx, input.BookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !book.IsAvailableForBorrow() {
		return nil, apperrors.Conflict(fmt.Sprintf("book is %s, not available for borrowing", book.Status))
	}

	loan, err := s.Borrow(ctx, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.books.MarkBorrowed(ctx, loan.BookID); err != nil {
		return nil, fmt.Errorf("mark book borrowed: %w", err)
	}

	s.logger.Info("book checked out",
		"loan_id", loan.ID,
		"book_id", loan.BookID,
		"member_id", loan.MemberID,
	)

	return loan, nil
}

// Checkin is the guarded return: under the book's lock it closes the loan
// and flips the book back to AVAILABLE.
func (s *LoanService) Checkin(ctx context.Context, loanID string) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}

	lock := s.bookLock(loan.BookID)
	lock.Lock()
	defer lock.Unlock()

	return s.Return(ctx, loanID)
}

// Fine returns the fine accrued on a loan as of the given date.
func (s *LoanService) Fine(ctx context.Context, loanID string, asOf time.Time) (float64, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return 0, fmt.Errorf("get loan: %w", err)
	}
	return loan.Fine(asOf), nil
}
