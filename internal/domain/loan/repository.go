package loan

import "context"

// Filter narrows List. Empty fields match everything.
type Filter struct {
	CustomerID     string
	LenderID       string
	Statuses       []Status
	WithRepayments bool
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate row-locks the loan until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	AppendRepayment(ctx context.Context, r *Repayment) error
	List(ctx context.Context, f Filter) ([]Loan, error)
}
