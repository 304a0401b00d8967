package mysql

import (
	"testing"
	"time"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a migrated in-memory sqlite DB. One connection only:
// every new connection to ":memory:" would see an empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeLoan(customerID string, principal string, status loan.Status) *loan.Loan {
	lender := "LENDER01"
	return &loan.Loan{
		LoanID:          id.NewID32(),
		CustomerID:      customerID,
		LenderID:        &lender,
		Principal:       dec(principal),
		InterestRate:    dec("15"),
		TermMonths:      3,
		Status:          status,
		RepaidTotal:     decimal.Zero,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func seedUser(t *testing.T, db *gorm.DB, userID string, role user.Role, netWorth string) {
	t.Helper()
	u := &user.User{UserID: userID, Name: userID, Role: role, NetWorth: dec(netWorth), CreditScore: 300}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}
