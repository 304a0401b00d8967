package profit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is realized interest booked when a loan settles. Total profit is the
// sum of all entries; rows are never updated or removed.
type Entry struct {
	ID       uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID  string          `gorm:"size:32;uniqueIndex:ux_profit_entries_entry_id" json:"entry_id"`
	LoanID   uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_profit_entries_loan" json:"-"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	BookedAt time.Time       `gorm:"column:booked_at;not null" json:"booked_at"`
}

func (Entry) TableName() string { return "profit_entries" }
