package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusApproved QuestionStatus = "approved"
	StatusRejected QuestionStatus = "rejected"
)

type AnswerType string

const (
	AnswerSingle   AnswerType = "single"
	AnswerMultiple AnswerType = "multiple"
)

// OptionKeys is the full set of allowed option keys, in presentation order.
var OptionKeys = []string{"A", "B", "C", "D", "E", "F", "G"}

// Option is one answer choice. Slice order is presentation order.
type Option struct {
	Key  string `json:"key" validate:"required,len=1"`
	Text string `json:"text" validate:"required"`
}

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	QuestionText string         `json:"question_text" gorm:"type:text;not null" validate:"required,min=1"`
	Options      datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"` // ordered []Option, may be null for free-recall questions
	AnswerType   AnswerType     `json:"answer_type" gorm:"size:10;default:single" validate:"omitempty,answer_type"`

	CorrectAnswers pq.StringArray `json:"correct_answers,omitempty" gorm:"type:text[]"`

	Explanation *string `json:"explanation,omitempty" gorm:"type:text"`
	Discussion  *string `json:"discussion,omitempty" gorm:"type:text"`

	Exam    string `json:"exam" gorm:"not null;size:100;index" validate:"required"`
	Subject string `json:"subject" gorm:"not null;size:100;index" validate:"required"`

	Topics pq.StringArray `json:"topics" gorm:"type:text[]"`
	Tags   pq.StringArray `json:"tags" gorm:"type:text[]"`

	Status QuestionStatus `json:"status" gorm:"size:20;default:pending;index" validate:"omitempty,question_status"`

	SubmittedBy uint  `json:"submitted_by" gorm:"not null;index"`
	ReviewedBy  *uint `json:"reviewed_by"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations (display names for listings)
	Submitter *User `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
	Reviewer  *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored JSONB options. A question without options
// (free-recall style) yields an empty slice.
func (q *Question) OptionList() ([]Option, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetOptions encodes the ordered option list into the JSONB column.
func (q *Question) SetOptions(opts []Option) error {
	if len(opts) == 0 {
		q.Options = nil
		return nil
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = data
	return nil
}

// IsDecided reports whether the question has left the pending state.
// approved and rejected are terminal.
func (q *Question) IsDecided() bool {
	return q.Status != StatusPending
}
