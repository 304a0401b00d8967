package mysql

import (
	"context"

	userDomain "p2p-lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) LenderExists(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDomain.User{}).
		Where("user_id = ? AND role = ?", userID, userDomain.RoleLender).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UpdateCreditScore(ctx context.Context, userID string, score int) error {
	res := r.db.WithContext(ctx).Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		Update("credit_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
