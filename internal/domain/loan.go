package domain

import "time"

const (
	// DefaultLoanDays is the loan period applied when no due date is given.
	DefaultLoanDays = 14

	// DailyFineRate is the flat fine accrued per overdue day.
	DailyFineRate = 1.0
)

// Loan records a single borrow event: one book lent to one member. A book
// accumulates many loans over time; nothing at this level prevents two open
// loans against the same copy; that guard belongs to the checkout
// orchestration in the lending service.
type Loan struct {
	Base
	BookID     string     `json:"book_id"`
	MemberID   string     `json:"member_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date,omitzero"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	FineAmount float64    `json:"fine_amount"`
	Notes      string     `json:"notes,omitempty"`
}

// SameAs reports natural-key equality: the (book, member, borrow date)
// triple identifies a borrow event.
func (l *Loan) SameAs(other *Loan) bool {
	if other == nil {
		return false
	}
	return l.BookID == other.BookID &&
		l.MemberID == other.MemberID &&
		SameDate(l.BorrowDate, other.BorrowDate)
}

// FillDefaultDueDate sets the due date to borrow date + DefaultLoanDays.
// It only fills an empty due date, so calling it again is a no-op and an
// explicitly supplied due date is never overwritten.
func (l *Loan) FillDefaultDueDate() {
	if !l.BorrowDate.IsZero() && l.DueDate.IsZero() {
		l.DueDate = DateOnly(l.BorrowDate).AddDate(0, 0, DefaultLoanDays)
	}
}

// IsReturned reports whether the loan has been closed.
func (l *Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// IsOverdue reports whether the loan ran past its due date: an open loan is
// overdue once today passes the due date, a closed loan is overdue when it
// was returned after the due date.
func (l *Loan) IsOverdue(today time.Time) bool {
	if l.IsReturned() {
		return dateAfter(*l.ReturnDate, l.DueDate)
	}
	return dateAfter(today, l.DueDate)
}

// OverdueDays returns the whole days past due, or 0 when not overdue.
func (l *Loan) OverdueDays(today time.Time) int {
	if !l.IsOverdue(today) {
		return 0
	}
	end := today
	if l.IsReturned() {
		end = *l.ReturnDate
	}
	return DaysBetween(l.DueDate, end)
}

// Fine returns the accrued fine: overdue days times the flat daily rate.
// The fine is always computed fresh from the dates, never incrementally.
func (l *Loan) Fine(today time.Time) float64 {
	if !l.IsOverdue(today) {
		return 0.0
	}
	return float64(l.OverdueDays(today)) * DailyFineRate
}

// MarkReturned closes the loan: stamps the return date and stores the fine
// as computed on that date. Transitioning the book back to AVAILABLE is the
// lending service's responsibility.
func (l *Loan) MarkReturned(today time.Time) {
	returned := DateOnly(today)
	l.ReturnDate = &returned
	l.FineAmount = l.Fine(today)
	l.Touch()
}

// Duration returns the whole-day span the book has been (or was) out.
func (l *Loan) Duration(today time.Time) int {
	end := today
	if l.IsReturned() {
		end = *l.ReturnDate
	}
	return DaysBetween(l.BorrowDate, end)
}

// RemainingDays returns the days left until the due date for an open loan,
// negative once overdue. Closed loans have no remaining days.
func (l *Loan) RemainingDays(today time.Time) int {
	if l.IsReturned() {
		return 0
	}
	return DaysBetween(today, l.DueDate)
}
