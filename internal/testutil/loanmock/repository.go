package loanmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a no-op, reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	AppendRepaymentFn      func(ctx context.Context, r *domain.Repayment) error
	ListFn                 func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) AppendRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.AppendRepaymentFn != nil {
		return m.AppendRepaymentFn(ctx, r)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
