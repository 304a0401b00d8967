package profitmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/profit"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn func(ctx context.Context, e *domain.Entry) error
	TotalFn  func(ctx context.Context) (decimal.Decimal, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) Total(ctx context.Context) (decimal.Decimal, error) {
	if m.TotalFn != nil {
		return m.TotalFn(ctx)
	}
	return decimal.Zero, context.Canceled
}
