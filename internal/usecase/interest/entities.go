package interest

import (
	"time"

	domain "p2p-lending-backend/internal/domain/interest"

	"github.com/shopspring/decimal"
)

type AddRuleInput struct {
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
	Rate       decimal.Decimal
	TermMonths int
}

type RuleDTO struct {
	RuleID     string          `json:"rule_id"`
	MinAmount  decimal.Decimal `json:"min_amount"`
	MaxAmount  decimal.Decimal `json:"max_amount"`
	Rate       decimal.Decimal `json:"rate"`
	TermMonths int             `json:"term_months"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toDTO(r domain.Rule) RuleDTO {
	return RuleDTO{
		RuleID:     r.RuleID,
		MinAmount:  r.MinAmount,
		MaxAmount:  r.MaxAmount,
		Rate:       r.Rate,
		TermMonths: r.TermMonths,
		CreatedAt:  r.CreatedAt,
	}
}
