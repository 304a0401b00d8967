package decisionmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/decision"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn      func(ctx context.Context, d *domain.Decision) error
	GetByLoanIDFn func(ctx context.Context, loanNumericID uint64) (*domain.Decision, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Decision) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Decision, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}
