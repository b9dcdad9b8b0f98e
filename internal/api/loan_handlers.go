package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerLoanRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans",
		Summary:     "List loans",
		Description: "Returns the full lending ledger",
		Tags:        []string{"Loans"},
	}, s.handleListLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLoan",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans",
		Summary:     "Record loan",
		Description: "Records a loan without touching the book's status flag",
		Tags:        []string{"Loans"},
	}, s.handleCreateLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkoutBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans/checkout",
		Summary:     "Check out book",
		Description: "Records a loan and marks the book BORROWED; refuses books that are not AVAILABLE",
		Tags:        []string{"Loans"},
	}, s.handleCheckout)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOpenLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/open",
		Summary:     "List open loans",
		Tags:        []string{"Loans"},
	}, s.handleListOpenLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOverdueLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/overdue",
		Summary:     "List overdue loans",
		Description: "Open loans past their due date as of today",
		Tags:        []string{"Loans"},
	}, s.handleListOverdueLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLoansByMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/member/{id}",
		Summary:     "List loans by member",
		Tags:        []string{"Loans"},
	}, s.handleListLoansByMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLoansByBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/book/{id}",
		Summary:     "List loans by book",
		Tags:        []string{"Loans"},
	}, s.handleListLoansByBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLoan",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/{id}",
		Summary:     "Get loan",
		Tags:        []string{"Loans"},
	}, s.handleGetLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "returnLoan",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans/{id}/return",
		Summary:     "Return loan",
		Description: "Closes the loan, computes the final fine, and marks the book AVAILABLE",
		Tags:        []string{"Loans"},
	}, s.handleReturnLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkinLoan",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans/{id}/checkin",
		Summary:     "Check in loan",
		Description: "Like return, but serialized against concurrent checkouts of the same book",
		Tags:        []string{"Loans"},
	}, s.handleCheckinLoan)
}

// === DTOs ===

// LoanResponse contains loan data in API responses.
type LoanResponse struct {
	ID            string     `json:"id" doc:"Loan ID"`
	BookID        string     `json:"book_id" doc:"Book ID"`
	MemberID      string     `json:"member_id" doc:"Member ID"`
	BorrowDate    time.Time  `json:"borrow_date" doc:"Borrow date"`
	DueDate       time.Time  `json:"due_date" doc:"Due date"`
	ReturnDate    *time.Time `json:"return_date,omitempty" doc:"Return date, absent while open"`
	FineAmount    float64    `json:"fine_amount" doc:"Fine accrued so far"`
	Notes         string     `json:"notes,omitempty" doc:"Free-form notes"`
	Returned      bool       `json:"returned" doc:"Whether the loan is closed"`
	Overdue       bool       `json:"overdue" doc:"Whether the loan is overdue as of today"`
	OverdueDays   int        `json:"overdue_days" doc:"Days past due as of today"`
	RemainingDays int        `json:"remaining_days" doc:"Days until due, 0 when returned"`
	CreatedAt     time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time  `json:"updated_at" doc:"Last update time"`
}

func toLoanResponse(l *domain.Loan) LoanResponse {
	now := time.Now()
	fine := l.FineAmount
	if !l.IsReturned() {
		fine = l.Fine(now)
	}
	return LoanResponse{
		ID:            l.ID,
		BookID:        l.BookID,
		MemberID:      l.MemberID,
		BorrowDate:    l.BorrowDate,
		DueDate:       l.DueDate,
		ReturnDate:    l.ReturnDate,
		FineAmount:    fine,
		Notes:         l.Notes,
		Returned:      l.IsReturned(),
		Overdue:       l.IsOverdue(now),
		OverdueDays:   l.OverdueDays(now),
		RemainingDays: l.RemainingDays(now),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toLoanResponses(loans []*domain.Loan) []LoanResponse {
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = toLoanResponse(l)
	}
	return resp
}

// LoanListResponse contains a list of loans.
type LoanListResponse struct {
	Loans []LoanResponse `json:"loans" doc:"List of loans"`
}

// LoanListOutput wraps the loan list response for Huma.
type LoanListOutput struct {
	Body LoanListResponse
}

// LoanOutput wraps a single loan response for Huma.
type LoanOutput struct {
	Body LoanResponse
}

// LoanIDInput contains a loan ID path parameter.
type LoanIDInput struct {
	ID string `path:"id" doc:"Loan ID"`
}

// CreateLoanInput wraps the borrow request for Huma.
type CreateLoanInput struct {
	Body service.BorrowInput
}

// === Handlers ===

func (s *Server) handleListLoans(ctx context.Context, _ *struct{}) (*LoanListOutput, error) {
	loans, err := s.services.Loans.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	return &LoanListOutput{Body: LoanListResponse{Loans: toLoanResponses(loans)}}, nil
}

func (s *Server) handleCreateLoan(ctx context.Context, input *CreateLoanInput) (*LoanOutput, error) {
	loan, err := s.services.Loans.Borrow(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleCheckout(ctx context.Context, input *CreateLoanInput) (*LoanOutput, error) {
	loan, err := s.services.Loans.Checkout(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleGetLoan(ctx context.Context, input *LoanIDInput) (*LoanOutput, error) {
	loan, err := s.services.Loans.GetLoan(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleListOpenLoans(ctx context.Context, _ *struct{}) (*LoanListOutput, error) {
	loans, err := s.services.Loans.ListOpenLoans(ctx)
	if err != nil {
		return nil, err
	}
	return &LoanListOutput{Body: LoanListResponse{Loans: toLoanResponses(loans)}}, nil
}

func (s *Server) handleListOverdueLoans(ctx context.Context, _ *struct{}) (*LoanListOutput, error) {
	loans, err := s.services.Loans.ListOverdueLoans(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &LoanListOutput{Body: LoanListResponse{Loans: toLoanResponses(loans)}}, nil
}

func (s *Server) handleListLoansByMember(ctx context.Context, input *LoanIDInput) (*LoanListOutput, error) {
	loans, err := s.services.Loans.ListLoansByMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanListOutput{Body: LoanListResponse{Loans: toLoanResponses(loans)}}, nil
}

func (s *Server) handleListLoansByBook(ctx context.Context, input *LoanIDInput) (*LoanListOutput, error) {
	loans, err := s.services.Loans.ListLoansByBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanListOutput{Body: LoanListResponse{Loans: toLoanResponses(loans)}}, nil
}

func (s *Server) handleReturnLoan(ctx context.Context, input *LoanIDInput) (*LoanOutput, error) {
	loan, err := s.services.Loans.Return(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleCheckinLoan(ctx context.Context, input *LoanIDInput) (*LoanOutput, error) {
	loan, err := s.services.Loans.Checkin(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}
