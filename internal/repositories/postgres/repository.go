package postgres

import (
	"context"

	"github.com/recallhub/recall-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db           *gorm.DB
	questionRepo repositories.QuestionRepository
	userRepo     repositories.UserRepository
}

// NewRepository creates the aggregate repository backed by PostgreSQL.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:           db,
		questionRepo: NewQuestionPostgreSQL(db),
		userRepo:     NewUserPostgreSQL(db),
	}
}

func (r *gormRepository) Question() repositories.QuestionRepository {
	return r.questionRepo
}

func (r *gormRepository) User() repositories.UserRepository {
	return r.userRepo
}

// WithTransaction runs fn against a repository bound to one transaction.
// A non-nil error from fn rolls everything back.
func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
