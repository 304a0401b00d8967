package decision

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// Decision is the audit row written when a pending loan is approved or rejected.
// At most one exists per loan.
type Decision struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	DecisionID string          `gorm:"column:decision_id;type:char(32);not null;uniqueIndex:ux_loan_decisions_decision_id"`
	LoanID     uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan"`
	Outcome    Outcome         `gorm:"column:outcome;size:16;not null"`
	ActorID    string          `gorm:"column:actor_id;size:32;not null"`
	ActorRole  string          `gorm:"column:actor_role;size:16;not null"`
	Rate       decimal.Decimal `gorm:"column:rate;type:decimal(7,4)"`
	TermMonths int             `gorm:"column:term_months"`
	DecidedAt  time.Time       `gorm:"column:decided_at;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Decision) TableName() string { return "loan_decisions" }
