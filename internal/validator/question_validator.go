package validator

import (
	"strings"

	apperrors "github.com/recallhub/recall-service/internal/errors"
	"github.com/recallhub/recall-service/internal/models"
)

// QuestionValidator checks the structural invariants of a submission that
// struct tags cannot express: option keys, correct-answer consistency and
// answer-type resolution.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateSubmission validates the full shape of a question before anything
// is persisted. Returns all field errors at once.
func (v *QuestionValidator) ValidateSubmission(text, exam, subject string, opts []models.Option, correctAnswers []string, answerType models.AnswerType) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(text) == "" {
		errs = append(errs, *apperrors.NewValidationError("question_text", "is required", text))
	}
	if strings.TrimSpace(exam) == "" {
		errs = append(errs, *apperrors.NewValidationError("exam", "is required", exam))
	}
	if strings.TrimSpace(subject) == "" {
		errs = append(errs, *apperrors.NewValidationError("subject", "is required", subject))
	}

	errs = append(errs, v.validateOptions(opts)...)
	errs = append(errs, v.validateCorrectAnswers(opts, correctAnswers, answerType)...)

	return errs
}

func (v *QuestionValidator) validateOptions(opts []models.Option) ValidationErrors {
	var errs ValidationErrors
	if len(opts) == 0 {
		return nil // free-recall question, no options
	}

	if len(opts) > len(models.OptionKeys) {
		errs = append(errs, *apperrors.NewValidationError("options", "cannot have more than 7 options", len(opts)))
	}

	seen := make(map[string]bool, len(opts))
	for _, opt := range opts {
		if !isValidOptionKey(opt.Key) {
			errs = append(errs, *apperrors.NewValidationError("options", "must be a single letter between A and G", opt.Key))
			continue
		}
		if seen[opt.Key] {
			errs = append(errs, *apperrors.NewValidationError("options", "duplicate option key", opt.Key))
		}
		seen[opt.Key] = true
		if strings.TrimSpace(opt.Text) == "" {
			errs = append(errs, *apperrors.NewValidationError("options", "option text cannot be empty", opt.Key))
		}
	}
	return errs
}

func (v *QuestionValidator) validateCorrectAnswers(opts []models.Option, correctAnswers []string, answerType models.AnswerType) ValidationErrors {
	var errs ValidationErrors

	if len(opts) == 0 {
		if len(correctAnswers) > 0 {
			errs = append(errs, *apperrors.NewValidationError("correct_answers", "cannot be set without options", correctAnswers))
		}
		return errs
	}

	// An options-bearing question must carry at least one correct key.
	if len(correctAnswers) == 0 {
		errs = append(errs, *apperrors.NewValidationError("correct_answers", "must select at least one correct answer", nil))
		return errs
	}

	keys := make(map[string]bool, len(opts))
	for _, opt := range opts {
		keys[opt.Key] = true
	}

	seen := make(map[string]bool, len(correctAnswers))
	for _, answer := range correctAnswers {
		if !keys[answer] {
			errs = append(errs, *apperrors.NewValidationError("correct_answers", "references an unknown option key", answer))
		}
		if seen[answer] {
			errs = append(errs, *apperrors.NewValidationError("correct_answers", "duplicate answer key", answer))
		}
		seen[answer] = true
	}

	if answerType == models.AnswerSingle && len(correctAnswers) != 1 {
		errs = append(errs, *apperrors.NewValidationError("answer_type", "single-answer questions must have exactly one correct answer", len(correctAnswers)))
	}

	return errs
}

// ResolveAnswerType derives the answer type when the submitter did not
// specify one: a single correct key means single, more means multiple.
func (v *QuestionValidator) ResolveAnswerType(answerType models.AnswerType, correctAnswers []string) models.AnswerType {
	if answerType == models.AnswerSingle || answerType == models.AnswerMultiple {
		return answerType
	}
	if len(correctAnswers) > 1 {
		return models.AnswerMultiple
	}
	return models.AnswerSingle
}

func isValidOptionKey(key string) bool {
	for _, k := range models.OptionKeys {
		if key == k {
			return true
		}
	}
	return false
}
