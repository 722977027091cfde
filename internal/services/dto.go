package services

import (
	"time"

	"github.com/recallhub/recall-service/internal/models"
)

// ===== QUESTION REQUESTS =====

type CreateQuestionRequest struct {
	QuestionText   string            `json:"question_text" validate:"required,min=1"`
	Options        []models.Option   `json:"options" validate:"omitempty,max=7,dive"`
	CorrectAnswers []string          `json:"correct_answers" validate:"omitempty,dive,option_key"`
	AnswerType     models.AnswerType `json:"answer_type" validate:"omitempty,answer_type"`
	Explanation    *string           `json:"explanation"`
	Discussion     *string           `json:"discussion"`
	Exam           string            `json:"exam" validate:"required"`
	Subject        string            `json:"subject" validate:"required"`
	Topics         []string          `json:"topics"`
	Tags           []string          `json:"tags"`
}

// UpdateQuestionRequest carries partial updates: nil fields keep their prior
// value, they are never coerced to empty.
type UpdateQuestionRequest struct {
	QuestionText   *string                `json:"question_text" validate:"omitempty,min=1"`
	Options        *[]models.Option       `json:"options" validate:"omitempty,max=7,dive"`
	CorrectAnswers *[]string              `json:"correct_answers" validate:"omitempty,dive,option_key"`
	AnswerType     *models.AnswerType     `json:"answer_type" validate:"omitempty,answer_type"`
	Explanation    *string                `json:"explanation"`
	Discussion     *string                `json:"discussion"`
	Exam           *string                `json:"exam" validate:"omitempty,min=1"`
	Subject        *string                `json:"subject" validate:"omitempty,min=1"`
	Topics         *[]string              `json:"topics"`
	Tags           *[]string              `json:"tags"`
	Status         *models.QuestionStatus `json:"status" validate:"omitempty,question_status"`
}

type ReviewQuestionRequest struct {
	Decision models.QuestionStatus `json:"decision" validate:"required,oneof=approved rejected"`
}

type ListQuestionsRequest struct {
	Exam    *string                `json:"exam"`
	Subject *string                `json:"subject"`
	Status  *models.QuestionStatus `json:"status" validate:"omitempty,question_status"`
	Limit   int                    `json:"limit" validate:"omitempty,min=1,max=200"`
	Offset  int                    `json:"offset" validate:"omitempty,min=0"`
}

// ===== QUESTION RESPONSES =====

// QuestionResponse is the wire shape of a question. A locked question keeps
// its metadata but drops options, answers, explanation and discussion so the
// client can render a disabled row instead of omitting it.
type QuestionResponse struct {
	ID             uint                  `json:"id"`
	QuestionText   string                `json:"question_text,omitempty"`
	Options        []models.Option       `json:"options,omitempty"`
	CorrectAnswers []string              `json:"correct_answers,omitempty"`
	AnswerType     models.AnswerType     `json:"answer_type,omitempty"`
	Explanation    *string               `json:"explanation,omitempty"`
	Discussion     *string               `json:"discussion,omitempty"`
	Exam           string                `json:"exam"`
	Subject        string                `json:"subject"`
	Topics         []string              `json:"topics,omitempty"`
	Tags           []string              `json:"tags,omitempty"`
	Status         models.QuestionStatus `json:"status"`
	Locked         bool                  `json:"locked"`
	SubmittedBy    uint                  `json:"submitted_by"`
	SubmitterName  string                `json:"submitter_name,omitempty"`
	ReviewerName   string                `json:"reviewer_name,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
}

type DuplicateCheckResponse struct {
	IsDuplicate      bool     `json:"is_duplicate"`
	SimilarQuestions []string `json:"similar_questions,omitempty"`
}

// ===== USER REQUESTS / RESPONSES =====

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Specialty string `json:"specialty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type DashboardResponse struct {
	PendingCount  int64               `json:"pending_count"`
	ApprovedCount int64               `json:"approved_count"`
	RejectedCount int64               `json:"rejected_count"`
	RecentPending []*QuestionResponse `json:"recent_pending"`
}

// ===== RESPONSE BUILDERS =====

// buildQuestionResponse maps a model to its wire shape. When locked is true
// the content fields are stripped.
func buildQuestionResponse(q *models.Question, locked bool) (*QuestionResponse, error) {
	resp := &QuestionResponse{
		ID:          q.ID,
		Exam:        q.Exam,
		Subject:     q.Subject,
		Status:      q.Status,
		Locked:      locked,
		SubmittedBy: q.SubmittedBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	if q.Submitter != nil {
		resp.SubmitterName = q.Submitter.Username
	}
	if q.Reviewer != nil {
		resp.ReviewerName = q.Reviewer.Username
	}
	if locked {
		return resp, nil
	}

	opts, err := q.OptionList()
	if err != nil {
		return nil, err
	}
	resp.QuestionText = q.QuestionText
	resp.Options = opts
	resp.CorrectAnswers = q.CorrectAnswers
	resp.AnswerType = q.AnswerType
	resp.Explanation = q.Explanation
	resp.Discussion = q.Discussion
	resp.Topics = q.Topics
	resp.Tags = q.Tags
	return resp, nil
}
