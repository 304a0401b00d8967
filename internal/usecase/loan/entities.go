package loan

import (
	"time"

	"p2p-lending-backend/internal/domain/decision"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/user"

	"github.com/shopspring/decimal"
)

type ApplyInput struct {
	CustomerID string
	LenderID   string
	Amount     decimal.Decimal
}

type DecideInput struct {
	LoanID  string
	Outcome decision.Outcome
	Actor   user.Actor
}

type RepaymentDTO struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
}

// LoanDTO is a loan plus the figures a repayment would be checked against
// right now.
type LoanDTO struct {
	LoanID          string          `json:"loan_id"`
	CustomerID      string          `json:"customer_id"`
	LenderID        string          `json:"lender_id,omitempty"`
	Principal       decimal.Decimal `json:"principal"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermMonths      int             `json:"term_months"`
	Status          string          `json:"status"`
	RepaidTotal     decimal.Decimal `json:"repaid_total"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	InterestDue     decimal.Decimal `json:"interest_due"`
	TotalDue        decimal.Decimal `json:"total_due"`
	Repayments      []RepaymentDTO  `json:"repayment_history"`
	StatusUpdatedAt time.Time       `json:"status_updated_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

func ToDTO(l *domain.Loan) *LoanDTO {
	out := &LoanDTO{
		LoanID:          l.LoanID,
		CustomerID:      l.CustomerID,
		LenderID:        l.Lender(),
		Principal:       l.Principal,
		InterestRate:    l.InterestRate,
		TermMonths:      l.TermMonths,
		Status:          string(l.Status),
		RepaidTotal:     l.RepaidTotal,
		Outstanding:     l.Outstanding(),
		InterestDue:     l.InterestDue(),
		TotalDue:        l.TotalDue(),
		Repayments:      make([]RepaymentDTO, 0, len(l.Repayments)),
		StatusUpdatedAt: l.StatusUpdatedAt,
		CreatedAt:       l.CreatedAt,
	}
	for _, r := range l.Repayments {
		out.Repayments = append(out.Repayments, RepaymentDTO{Amount: r.Amount, PaidAt: r.PaidAt})
	}
	return out
}
