package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLender   Role = "lender"
	RoleCustomer Role = "customer"
)

// User is owned by the account service. The loan engine reads net worth and
// credit score and only ever writes credit_score.
type User struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID      string          `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name        string          `gorm:"size:128" json:"name"`
	Email       string          `gorm:"size:255;index" json:"email"`
	Role        Role            `gorm:"size:16;default:'customer'" json:"role"`
	NetWorth    decimal.Decimal `gorm:"type:decimal(18,2)" json:"net_worth"`
	CreditScore int             `gorm:"default:300" json:"credit_score"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }
