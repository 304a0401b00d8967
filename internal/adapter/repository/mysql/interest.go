package mysql

import (
	"context"

	interestDomain "p2p-lending-backend/internal/domain/interest"

	"gorm.io/gorm"
)

type InterestRuleRepository struct{ db *gorm.DB }

func NewInterestRuleRepository(db *gorm.DB) *InterestRuleRepository {
	return &InterestRuleRepository{db: db}
}

func (r *InterestRuleRepository) Create(ctx context.Context, rule *interestDomain.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *InterestRuleRepository) List(ctx context.Context) ([]interestDomain.Rule, error) {
	var out []interestDomain.Rule
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}
