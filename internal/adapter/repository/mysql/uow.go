package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bindRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:     &LoanRepository{db: tx},
		Decisions: &DecisionRepository{db: tx},
		Users:     &UserRepository{db: tx},
		Profits:   &ProfitRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bindRepos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bindRepos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
