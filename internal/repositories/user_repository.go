package repositories

import (
	"context"

	"github.com/recallhub/recall-service/internal/models"
)

// UserRepository interface for user and contribution-ledger operations.
type UserRepository interface {
	// Basic operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Contribution ledger. All three use relative increments so concurrent
	// updates to different users never conflict; each must run inside the
	// same transaction as the Question mutation it accompanies.
	RecordSubmission(ctx context.Context, userID uint) error
	RecordApproval(ctx context.Context, userID uint) error
	RecordRejection(ctx context.Context, userID uint) error
}
