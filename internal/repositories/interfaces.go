package repositories

import (
	"context"
	"errors"

	"github.com/recallhub/recall-service/internal/models"
	"gorm.io/gorm"
)

// Repository is the aggregate access point for all entity repositories.
// WithTransaction runs fn against a repository bound to a single database
// transaction; question submission and review both depend on it to keep the
// Question row and the submitter's ledger in step.
type Repository interface {
	Question() QuestionRepository
	User() UserRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Exam        *string                `json:"exam"`
	Subject     *string                `json:"subject"`
	Status      *models.QuestionStatus `json:"status"`
	SubmittedBy *uint                  `json:"submitted_by"`
	Limit       int                    `json:"limit"`
	Offset      int                    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// StatusCounts is the per-status breakdown shown on the moderation dashboard.
type StatusCounts struct {
	Pending  int64 `json:"pending_count"`
	Approved int64 `json:"approved_count"`
	Rejected int64 `json:"rejected_count"`
}

// IsNotFoundError checks whether err represents a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
