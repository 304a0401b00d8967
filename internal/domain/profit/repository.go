package profit

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Total(ctx context.Context) (decimal.Decimal, error)
}
