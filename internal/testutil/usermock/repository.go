package usermock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByUserIDFn       func(ctx context.Context, userID string) (*domain.User, error)
	LenderExistsFn      func(ctx context.Context, userID string) (bool, error)
	UpdateCreditScoreFn func(ctx context.Context, userID string, score int) error
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) LenderExists(ctx context.Context, userID string) (bool, error) {
	if m.LenderExistsFn != nil {
		return m.LenderExistsFn(ctx, userID)
	}
	return false, context.Canceled
}

func (m *Repo) UpdateCreditScore(ctx context.Context, userID string, score int) error {
	if m.UpdateCreditScoreFn != nil {
		return m.UpdateCreditScoreFn(ctx, userID, score)
	}
	return nil
}
