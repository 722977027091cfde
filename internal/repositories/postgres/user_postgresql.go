package postgres

import (
	"context"
	"fmt"

	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// RecordSubmission increments the submitter's ledger for a newly created
// question. Relative increments keep concurrent submitters from clobbering
// each other.
func (u *UserPostgreSQL) RecordSubmission(ctx context.Context, userID uint) error {
	return u.updateLedger(ctx, userID, map[string]interface{}{
		"contributions": gorm.Expr("contributions + 1"),
		"pending":       gorm.Expr("pending + 1"),
	})
}

// RecordApproval moves one of the user's questions from pending to approved.
func (u *UserPostgreSQL) RecordApproval(ctx context.Context, userID uint) error {
	return u.updateLedger(ctx, userID, map[string]interface{}{
		"approved": gorm.Expr("approved + 1"),
		"pending":  gorm.Expr("pending - 1"),
	})
}

// RecordRejection removes one of the user's questions from pending. The
// rejected count is implicit: contributions - approved - pending.
func (u *UserPostgreSQL) RecordRejection(ctx context.Context, userID uint) error {
	return u.updateLedger(ctx, userID, map[string]interface{}{
		"pending": gorm.Expr("pending - 1"),
	})
}

func (u *UserPostgreSQL) updateLedger(ctx context.Context, userID uint, updates map[string]interface{}) error {
	result := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update contribution ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
