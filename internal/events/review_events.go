package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/recallhub/recall-service/internal/models"
)

// EventType represents the question lifecycle events published by the service.
type EventType string

const (
	EventQuestionSubmitted EventType = "question.submitted"
	EventQuestionApproved  EventType = "question.approved"
	EventQuestionRejected  EventType = "question.rejected"
)

// ReviewEvent is the envelope for all question lifecycle events.
type ReviewEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type QuestionSubmittedEvent struct {
	QuestionID  uint   `json:"question_id"`
	Exam        string `json:"exam"`
	Subject     string `json:"subject"`
	SubmittedBy uint   `json:"submitted_by"`
}

type QuestionReviewedEvent struct {
	QuestionID uint                  `json:"question_id"`
	Exam       string                `json:"exam"`
	Subject    string                `json:"subject"`
	Status     models.QuestionStatus `json:"status"`
	SubmitterID uint                 `json:"submitter_id"`
	ReviewerID  uint                 `json:"reviewer_id"`
	ReviewedAt  time.Time            `json:"reviewed_at"`
}

func NewQuestionSubmittedEvent(q *models.Question) *ReviewEvent {
	return &ReviewEvent{
		ID:        GenerateEventID(),
		Type:      EventQuestionSubmitted,
		Timestamp: time.Now(),
		Source:    "recall-service",
		Version:   "1.0",
		Data: QuestionSubmittedEvent{
			QuestionID:  q.ID,
			Exam:        q.Exam,
			Subject:     q.Subject,
			SubmittedBy: q.SubmittedBy,
		},
	}
}

func NewQuestionReviewedEvent(q *models.Question, reviewerID uint) *ReviewEvent {
	eventType := EventQuestionApproved
	if q.Status == models.StatusRejected {
		eventType = EventQuestionRejected
	}
	return &ReviewEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "recall-service",
		Version:   "1.0",
		Data: QuestionReviewedEvent{
			QuestionID:  q.ID,
			Exam:        q.Exam,
			Subject:     q.Subject,
			Status:      q.Status,
			SubmitterID: q.SubmittedBy,
			ReviewerID:  reviewerID,
			ReviewedAt:  time.Now(),
		},
	}
}

// GenerateEventID returns a unique id for an event envelope.
func GenerateEventID() string {
	return uuid.NewString()
}
