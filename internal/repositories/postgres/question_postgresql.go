package postgres

import (
	"context"
	"fmt"

	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).
		Preload("Submitter").
		Preload("Reviewer").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var questions []*models.Question
	var total int64

	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	err := query.
		Preload("Submitter").
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetBySubmitter(ctx context.Context, submitterID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("submitted_by = ?", submitterID).
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions by submitter: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByStatus(ctx context.Context) (*repositories.StatusCounts, error) {
	var counts repositories.StatusCounts

	type row struct {
		Status models.QuestionStatus
		Count  int64
	}
	var rows []row
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count questions by status: %w", err)
	}

	for _, r := range rows {
		switch r.Status {
		case models.StatusPending:
			counts.Pending = r.Count
		case models.StatusApproved:
			counts.Approved = r.Count
		case models.StatusRejected:
			counts.Rejected = r.Count
		}
	}
	return &counts, nil
}

func (q *QuestionPostgreSQL) GetRecentPending(ctx context.Context, limit int) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Preload("Submitter").
		Order("created_at DESC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent pending questions: %w", err)
	}
	return questions, nil
}

// ApprovedRank counts approved questions created strictly before this one.
// Ties on created_at are broken by id so the ordering is deterministic.
func (q *QuestionPostgreSQL) ApprovedRank(ctx context.Context, question *models.Question) (int, error) {
	var rank int64
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("status = ?", models.StatusApproved).
		Where("(created_at, id) < (?, ?)", question.CreatedAt, question.ID).
		Count(&rank).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute approved rank: %w", err)
	}
	return int(rank), nil
}

func (q *QuestionPostgreSQL) OldestApprovedIDs(ctx context.Context, limit int) ([]uint, error) {
	if limit <= 0 {
		return nil, nil
	}
	var ids []uint
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("status = ?", models.StatusApproved).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get oldest approved questions: %w", err)
	}
	return ids, nil
}

func (q *QuestionPostgreSQL) FindSimilarByText(ctx context.Context, text string, limit int) ([]string, error) {
	var texts []string
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("question_text ILIKE ?", "%"+text+"%").
		Order("created_at DESC").
		Limit(limit).
		Pluck("question_text", &texts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search similar questions: %w", err)
	}
	return texts, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Exam != nil {
		query = query.Where("exam = ?", *filters.Exam)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SubmittedBy != nil {
		query = query.Where("submitted_by = ?", *filters.SubmittedBy)
	}
	return query
}
