package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestLoan_FillDefaultDueDate(t *testing.T) {
	loan := &Loan{BorrowDate: date(2024, 1, 1)}

	loan.FillDefaultDueDate()
	assert.Equal(t, date(2024, 1, 15), loan.DueDate)

	// Idempotent: a second call leaves the due date unchanged.
	loan.FillDefaultDueDate()
	assert.Equal(t, date(2024, 1, 15), loan.DueDate)
}

func TestLoan_FillDefaultDueDate_ExplicitDueDateKept(t *testing.T) {
	loan := &Loan{
		BorrowDate: date(2024, 1, 1),
		DueDate:    date(2024, 2, 1),
	}

	loan.FillDefaultDueDate()
	assert.Equal(t, date(2024, 2, 1), loan.DueDate)
}

func TestLoan_FillDefaultDueDate_NoBorrowDate(t *testing.T) {
	loan := &Loan{}
	loan.FillDefaultDueDate()
	assert.True(t, loan.DueDate.IsZero())
}

func TestLoan_Overdue(t *testing.T) {
	tests := []struct {
		name        string
		dueDate     time.Time
		returnDate  *time.Time
		today       time.Time
		wantOverdue bool
		wantDays    int
		wantFine    float64
	}{
		{
			name:        "open loan past due",
			dueDate:     date(2024, 1, 10),
			today:       date(2024, 1, 15),
			wantOverdue: true,
			wantDays:    5,
			wantFine:    5.0,
		},
		{
			name:        "open loan on due date",
			dueDate:     date(2024, 1, 10),
			today:       date(2024, 1, 10),
			wantOverdue: false,
		},
		{
			name:        "open loan before due date",
			dueDate:     date(2024, 1, 10),
			today:       date(2024, 1, 5),
			wantOverdue: false,
		},
		{
			name:        "returned early",
			dueDate:     date(2024, 1, 10),
			returnDate:  datePtr(2024, 1, 8),
			today:       date(2024, 1, 15),
			wantOverdue: false,
		},
		{
			name:        "returned late",
			dueDate:     date(2024, 1, 10),
			returnDate:  datePtr(2024, 1, 13),
			today:       date(2024, 3, 1),
			wantOverdue: true,
			wantDays:    3,
			wantFine:    3.0,
		},
		{
			name:        "returned on due date",
			dueDate:     date(2024, 1, 10),
			returnDate:  datePtr(2024, 1, 10),
			today:       date(2024, 3, 1),
			wantOverdue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{
				BookID:     "book-1",
				MemberID:   "mem-1",
				BorrowDate: date(2024, 1, 1),
				DueDate:    tt.dueDate,
				ReturnDate: tt.returnDate,
			}

			assert.Equal(t, tt.wantOverdue, loan.IsOverdue(tt.today))
			assert.Equal(t, tt.wantDays, loan.OverdueDays(tt.today))
			assert.Equal(t, tt.wantFine, loan.Fine(tt.today))
		})
	}
}

func TestLoan_MarkReturned(t *testing.T) {
	loan := &Loan{
		BookID:     "book-1",
		MemberID:   "mem-1",
		BorrowDate: date(2024, 1, 1),
		DueDate:    date(2024, 1, 10),
	}

	loan.MarkReturned(date(2024, 1, 15))

	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, date(2024, 1, 15), *loan.ReturnDate)
	assert.Equal(t, 5.0, loan.FineAmount)
}

func TestLoan_MarkReturned_OnTime(t *testing.T) {
	loan := &Loan{
		BorrowDate: date(2024, 1, 1),
		DueDate:    date(2024, 1, 10),
	}

	loan.MarkReturned(date(2024, 1, 8))

	require.True(t, loan.IsReturned())
	assert.Equal(t, 0.0, loan.FineAmount)
	assert.False(t, loan.IsOverdue(date(2024, 2, 1)))
}

func TestLoan_Duration(t *testing.T) {
	loan := &Loan{BorrowDate: date(2024, 1, 1)}
	assert.Equal(t, 9, loan.Duration(date(2024, 1, 10)))

	loan.ReturnDate = datePtr(2024, 1, 5)
	assert.Equal(t, 4, loan.Duration(date(2024, 1, 10)))
}

func TestLoan_RemainingDays(t *testing.T) {
	loan := &Loan{
		BorrowDate: date(2024, 1, 1),
		DueDate:    date(2024, 1, 15),
	}

	assert.Equal(t, 5, loan.RemainingDays(date(2024, 1, 10)))
	assert.Equal(t, -3, loan.RemainingDays(date(2024, 1, 18)))

	loan.ReturnDate = datePtr(2024, 1, 12)
	assert.Equal(t, 0, loan.RemainingDays(date(2024, 1, 10)))
}

func TestLoan_SameAs(t *testing.T) {
	base := &Loan{BookID: "book-1", MemberID: "mem-1", BorrowDate: date(2024, 1, 1)}

	same := &Loan{BookID: "book-1", MemberID: "mem-1", BorrowDate: date(2024, 1, 1).Add(13 * time.Hour)}
	same.ID = "loan-different-id"
	assert.True(t, base.SameAs(same), "identifier and clock time are ignored")

	assert.False(t, base.SameAs(&Loan{BookID: "book-2", MemberID: "mem-1", BorrowDate: date(2024, 1, 1)}))
	assert.False(t, base.SameAs(&Loan{BookID: "book-1", MemberID: "mem-1", BorrowDate: date(2024, 1, 2)}))
	assert.False(t, base.SameAs(nil))
}
