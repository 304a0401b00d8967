package uow

import (
	"context"

	"p2p-lending-backend/internal/domain/decision"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/profit"
	"p2p-lending-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans     loan.Repository
	Decisions decision.Repository
	Users     user.Repository
	Profits   profit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; every read-modify-write of a
	// loan goes through here so mutations of one loan id never interleave
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
