package mysql

import (
	"context"

	profitDomain "p2p-lending-backend/internal/domain/profit"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfitRepository struct{ db *gorm.DB }

func NewProfitRepository(db *gorm.DB) *ProfitRepository { return &ProfitRepository{db: db} }

func (r *ProfitRepository) Create(ctx context.Context, e *profitDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Total sums in Go so the result does not depend on how the driver returns
// DECIMAL aggregates.
func (r *ProfitRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	var entries []profitDomain.Entry
	if err := r.db.WithContext(ctx).Select("amount").Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}
