package decision

import "context"

type Repository interface {
	// Create a decision (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, d *Decision) error

	GetByLoanID(ctx context.Context, loanID uint64) (*Decision, error)
}
