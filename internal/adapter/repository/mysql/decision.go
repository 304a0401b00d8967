package mysql

import (
	"context"

	decisionDomain "p2p-lending-backend/internal/domain/decision"

	"gorm.io/gorm"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDomain.Decision) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DecisionRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*decisionDomain.Decision, error) {
	var out decisionDomain.Decision
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out)
	return &out, res.Error
}
