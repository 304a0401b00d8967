package mysql

import (
	"context"

	loanDomain "p2p-lending-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

// Save writes the loan row only; repayment history is append-only and goes
// through AppendRepayment.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) AppendRepayment(ctx context.Context, p *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Repayments", orderRepayments).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if res.Error != nil {
		return &out, res.Error
	}
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", out.ID).
		Order("paid_at ASC, id ASC").
		Find(&out.Repayments).Error
	return &out, err
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.LenderID != "" {
		q = q.Where("lender_id = ?", f.LenderID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.WithRepayments {
		q = q.Preload("Repayments", orderRepayments)
	}
	var out []loanDomain.Loan
	err := q.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func orderRepayments(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, id ASC") }
