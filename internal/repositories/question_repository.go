package repositories

import (
	"context"

	"github.com/recallhub/recall-service/internal/models"
)

// QuestionRepository interface for question-specific operations.
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Query operations, newest-first with submitter/reviewer preloaded
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetBySubmitter(ctx context.Context, submitterID uint) ([]*models.Question, error)

	// Moderation dashboard
	CountByStatus(ctx context.Context) (*StatusCounts, error)
	GetRecentPending(ctx context.Context, limit int) ([]*models.Question, error)

	// ApprovedRank returns the zero-based position of the question among
	// approved questions ordered by creation time. The rank drives the
	// contribution-based unlock entitlement.
	ApprovedRank(ctx context.Context, question *models.Question) (int, error)

	// OldestApprovedIDs returns the ids of the first limit approved
	// questions in creation order, i.e. the set a viewer with that
	// entitlement has unlocked.
	OldestApprovedIDs(ctx context.Context, limit int) ([]uint, error)

	// FindSimilarByText runs a case-insensitive substring probe against
	// existing question text, used as a cheap duplicate hint.
	FindSimilarByText(ctx context.Context, text string, limit int) ([]string, error)
}
