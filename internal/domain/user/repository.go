package user

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// LenderExists reports whether userID belongs to a lender account.
	LenderExists(ctx context.Context, userID string) (bool, error)
	UpdateCreditScore(ctx context.Context, userID string, score int) error
}
