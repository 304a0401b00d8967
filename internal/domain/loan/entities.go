package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// IsOpen reports whether a loan can still take repayments or be defaulted.
// "approved" is only found on legacy rows; the engine itself never writes it.
func (s Status) IsOpen() bool { return s == StatusActive || s == StatusApproved }

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusDefaulted
}

type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	CustomerID      string          `gorm:"size:32;index:idx_loans_customer" json:"customer_id"`
	LenderID        *string         `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	Principal       decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(7,4)" json:"interest_rate"`
	TermMonths      int             `json:"term_months"`
	Status          Status          `gorm:"size:16;index:idx_loans_status;default:'pending'" json:"status"`
	RepaidTotal     decimal.Decimal `gorm:"type:decimal(18,2)" json:"repaid_total"`
	StatusUpdatedAt time.Time       `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Repayments []Repayment `gorm:"foreignKey:LoanID;references:ID" json:"repayment_history"`
}

func (Loan) TableName() string { return "loans" }

// Repayment is one entry of a loan's append-only repayment history.
type Repayment struct {
	ID     uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID uint64          `gorm:"column:loan_id;not null;index" json:"-"`
	Amount decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	PaidAt time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
}

func (Repayment) TableName() string { return "loan_repayments" }

// rates are percentages
const percentShift = -2

// Outstanding is principal minus everything repaid so far.
func (l *Loan) Outstanding() decimal.Decimal { return l.Principal.Sub(l.RepaidTotal) }

// InterestDue is charged on the current outstanding balance at the loan rate.
// It is recomputed on every call; there is no schedule. Rounded to cents, the
// unit payments are made in.
func (l *Loan) InterestDue() decimal.Decimal {
	return l.Outstanding().Mul(l.InterestRate).Shift(percentShift).Round(2)
}

func (l *Loan) TotalDue() decimal.Decimal { return l.Outstanding().Add(l.InterestDue()) }

// HistoryTotal sums the loaded repayment history.
func (l *Loan) HistoryTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range l.Repayments {
		sum = sum.Add(r.Amount)
	}
	return sum
}

func (l *Loan) Lender() string {
	if l.LenderID == nil {
		return ""
	}
	return *l.LenderID
}
