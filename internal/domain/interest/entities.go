package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fallback bracket used when no rule covers an amount.
var (
	DefaultRate       = decimal.NewFromInt(15)
	DefaultTermMonths = 3
)

// Rule maps an inclusive amount range to a rate (percent) and term.
// Rules are never edited; table order is insertion order.
type Rule struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"-"`
	RuleID     string          `gorm:"size:32;uniqueIndex:ux_interest_rules_rule_id" json:"rule_id"`
	MinAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"min_amount"`
	MaxAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"max_amount"`
	Rate       decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"rate"`
	TermMonths int             `gorm:"not null" json:"term_months"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Rule) TableName() string { return "interest_rules" }

func (r Rule) Covers(amount decimal.Decimal) bool {
	return r.MinAmount.LessThanOrEqual(amount) && amount.LessThanOrEqual(r.MaxAmount)
}
