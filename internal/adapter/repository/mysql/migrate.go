package mysql

import (
	"p2p-lending-backend/internal/domain/decision"
	"p2p-lending-backend/internal/domain/event"
	"p2p-lending-backend/internal/domain/interest"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/profit"
	"p2p-lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the engine owns, plus users for
// local setups where the account service shares the database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&interest.Rule{},
		&loan.Loan{},
		&loan.Repayment{},
		&decision.Decision{},
		&profit.Entry{},
		&event.Notification{},
	)
}
